// Package config provides centralized configuration management for the
// neutron probe upload pipeline. It handles loading configuration from
// multiple sources, validation, and path resolution for every directory
// the pipeline touches.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml / configs/config.yaml
//	3. Struct tag defaults (lowest priority)
//
// # Environment Variables
//
// Variables carry no application prefix so the HIEv credential keeps its
// historical name:
//
//	HIEV_API_KEY=...                 (required; never logged)
//	HIEV_BASE_URL=https://hiev.westernsydney.edu.au
//	CONVERTER_SCRIPT=FACE_SCRIPT_NEUTRON_TXT-2-CSV.r
//	LOGGING_LEVEL=info
//	PATHS_WORKING_ROOT=/srv/neutron
//
// # Path Management
//
// All paths resolve relative to the executable directory (or the
// configured working root), never the current working directory; the
// instrument logger and the scheduled run both assume the deployed layout:
//
//	paths, err := config.GetPaths(cfg)
//	inbox := paths.DataPath("FA150518.TXT")
//	staged := paths.RenamedPath("FACE_AUTO_RA_NEUTRON_R_20180515.txt")
//
// # Validation
//
// Load fails when HIEV_API_KEY is unset, when timeouts are not positive,
// or when the converter command is blank. A failed Load is fatal to the
// run before any file is touched.
package config
