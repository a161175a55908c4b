package extensions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	// ClaudeDesktopConfigName is the Claude Desktop settings file.
	ClaudeDesktopConfigName = "claude_desktop_config.json"
	// MCPServersKey is the top-level key holding MCP server entries.
	MCPServersKey = "mcpServers"
	// FilesystemServerName is the entry setup writes.
	FilesystemServerName = "filesystem"
	// FilesystemServerPackage is the npm package serving a directory over MCP.
	FilesystemServerPackage = "@modelcontextprotocol/server-filesystem"
)

// MCPServer is a stdio MCP server entry as Claude Desktop stores it.
type MCPServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// FilesystemServer returns the entry that exposes dir through npx.
// Claude Desktop expects forward slashes even on Windows.
func FilesystemServer(dir string) MCPServer {
	return MCPServer{
		Command: "npx",
		Args: []string{
			FilesystemServerPackage,
			strings.ReplaceAll(dir, `\`, "/"),
		},
	}
}

// ClaudeDesktopConfigDir returns the per-platform Claude Desktop settings dir.
func ClaudeDesktopConfigDir(home, goos string) string {
	switch goos {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Claude")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude")
	default:
		return filepath.Join(home, ".config", "Claude")
	}
}

// ClaudeDesktopConfigPath returns the Claude Desktop config file path.
func ClaudeDesktopConfigPath(home, goos string) string {
	return filepath.Join(ClaudeDesktopConfigDir(home, goos), ClaudeDesktopConfigName)
}

// ClaudeDesktopInstalled reports whether Claude Desktop looks installed.
// On Windows the app lives under AppData/Local; elsewhere the settings dir
// is the only reliable trace.
func ClaudeDesktopInstalled(home, goos string) bool {
	probe := ClaudeDesktopConfigDir(home, goos)
	if goos == "windows" {
		probe = filepath.Join(home, "AppData", "Local", "Claude")
	}
	info, err := os.Stat(probe)
	return err == nil && info.IsDir()
}

// LookupMCPServer reads one server entry. A missing file or entry returns
// ok=false without error.
func LookupMCPServer(path, name string) (MCPServer, bool, error) {
	data, err := readConfig(path)
	if err != nil {
		return MCPServer{}, false, err
	}
	res := gjson.GetBytes(data, MCPServersKey+"."+escapeKey(name))
	if !res.Exists() {
		return MCPServer{}, false, nil
	}

	var srv MCPServer
	if err := json.Unmarshal([]byte(res.Raw), &srv); err != nil {
		return MCPServer{}, false, fmt.Errorf("decode mcp server %q: %w", name, err)
	}
	return srv, true, nil
}

// MergeMCPServer sets mcpServers.<name> in the config at path, leaving every
// other key untouched. replaced reports whether an entry was overwritten.
func MergeMCPServer(path, name string, server MCPServer) (replaced bool, err error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return false, fmt.Errorf("claude desktop config path is empty")
	}
	if strings.TrimSpace(name) == "" {
		return false, fmt.Errorf("mcp server name is empty")
	}

	data, err := readConfig(path)
	if err != nil {
		return false, err
	}

	if servers := gjson.GetBytes(data, MCPServersKey); servers.Exists() && !servers.IsObject() {
		data, err = sjson.SetRawBytes(data, MCPServersKey, []byte("{}"))
		if err != nil {
			return false, fmt.Errorf("reset %s: %w", MCPServersKey, err)
		}
	}

	key := MCPServersKey + "." + escapeKey(name)
	replaced = gjson.GetBytes(data, key).Exists()

	entry, err := json.Marshal(server)
	if err != nil {
		return false, fmt.Errorf("encode mcp server: %w", err)
	}
	data, err = sjson.SetRawBytes(data, key, entry)
	if err != nil {
		return false, fmt.Errorf("set %s: %w", key, err)
	}

	if err := writeConfig(path, pretty.Pretty(data)); err != nil {
		return false, err
	}
	return replaced, nil
}

// readConfig returns the raw document, or "{}" when the file is missing or empty.
func readConfig(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []byte("{}"), nil
		}
		return nil, fmt.Errorf("read claude desktop config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []byte("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode claude desktop config: invalid json in %s", path)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("decode claude desktop config: %s is not a json object", path)
	}
	return data, nil
}

func writeConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir claude desktop config dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write claude desktop config tmp: %w", err)
	}

	// Best-effort atomic replace (works on Windows as long as the target isn't locked).
	_ = os.Remove(path)
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename claude desktop config tmp: %w", err)
	}
	return nil
}

var keyEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`)

// escapeKey quotes gjson/sjson path metacharacters in a single key.
func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
