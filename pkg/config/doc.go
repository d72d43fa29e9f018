// Package config loads harview settings.
//
// Values are merged from several sources. Later sources win:
//
//  1. Built-in defaults
//  2. Global config file (~/.config/harview/config.yaml)
//  3. Local config file (.harviewrc.yaml in the working directory)
//  4. An explicit --config file
//  5. Environment variables (HARVIEW_*), including any set by a .env file
//  6. Command-line flags, applied by the CLI
//
// Config files are YAML, or JSON when the extension is .json. Besides
// logging and output settings a file may carry a default filter profile:
//
//	logLevel: debug
//	filter:
//	  domains: [api.example.com]
//	  category: xhr
//	  status: "2"
package config
