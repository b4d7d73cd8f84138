package config

// Merge combines a file config with higher-precedence values in over.
// Values set in over win; zero-value fields fall through to fileCfg.
// Filters merge per field.
func Merge(fileCfg *Config, over Config) Config {
	result := over
	if fileCfg == nil {
		return result
	}

	if result.APIURL == "" {
		result.APIURL = fileCfg.APIURL
	}
	if result.OutputFormat == "" {
		result.OutputFormat = fileCfg.OutputFormat
	}
	if result.TopK == 0 {
		result.TopK = fileCfg.TopK
	}
	if result.TripsLimit == 0 {
		result.TripsLimit = fileCfg.TripsLimit
	}
	if result.Timeout == "" {
		result.Timeout = fileCfg.Timeout
	}
	if result.ChartsDir == "" {
		result.ChartsDir = fileCfg.ChartsDir
	}
	result.Filters = result.Filters.Merge(fileCfg.Filters)

	return result
}

// Layers merges CLI values over the project and global files, in that
// order of precedence.
func Layers(cli Config, project, global *Config) Config {
	return Merge(global, Merge(project, cli))
}
