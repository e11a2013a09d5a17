package config

const (
	defaultScriptDir              = "~/.local/share/plateflow/scripts"
	defaultLogDir                 = "~/.local/share/plateflow/logs"
	defaultSheetDir               = "~/plate_data"
	defaultShotDBTimeoutSeconds   = 30
	defaultConverterBinary        = "/usr/local/Nuke15.1v1/Nuke15.1"
	defaultCodec                  = "Apple ProRes 4444"
	defaultConverterTimeoutSecond = 0
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

func defaultColorspaces() []string {
	return []string{
		"ACES - ACEScg",
		"ACES - ACES2065-1",
		"Linear Rec.709 (sRGB)",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScriptDir: defaultScriptDir,
			LogDir:    defaultLogDir,
			SheetDir:  defaultSheetDir,
		},
		ShotDB: ShotDB{
			TimeoutSeconds: defaultShotDBTimeoutSeconds,
		},
		Converter: Converter{
			Binary:         defaultConverterBinary,
			DefaultCodec:   defaultCodec,
			Colorspaces:    defaultColorspaces(),
			MaxParallel:    0,
			TimeoutSeconds: defaultConverterTimeoutSecond,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
