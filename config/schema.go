package config

// Config holds the settings setup runs with.
//
// FolderName and DatabaseURL normally come from the environment, DropboxPaths
// from the optional local config file. Any key may be set in either place.
type Config struct {
	// FolderName is the target subfolder that marks the Dropbox root.
	FolderName string `mapstructure:"folder_name" json:"folder_name"`
	// DatabaseURL is the reference URL echoed by the Notion prep launcher.
	DatabaseURL string `mapstructure:"database_url" json:"database_url"`
	// DropboxPaths are extra base directories probed after the built-in guesses.
	DropboxPaths []string `mapstructure:"dropbox_paths" json:"dropbox_paths"`

	// source is the config file that was read, empty when none was.
	source string
}

// Source returns the path of the config file that was loaded, if any.
func (c *Config) Source() string {
	return c.source
}
