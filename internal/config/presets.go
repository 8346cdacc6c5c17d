package config

// Presets are named starting points for common experiments.
var Presets = map[string]*Config{
	"dilute": {
		ContainerRadius: 50, Events: 2000, StateFile: DefaultStateFile,
		Generate: GenConfig{Balls: 10, Mass: 1, Radius: 0.5, RMSSpeed: 5},
	},
	"dense": {
		ContainerRadius: 10, Events: 5000, StateFile: DefaultStateFile,
		Generate: GenConfig{Balls: 20, Mass: 1, Radius: 1, RMSSpeed: 5},
	},
	"slow": {
		ContainerRadius: 10, Events: 1000, StateFile: DefaultStateFile,
		Generate: GenConfig{Balls: 15, Mass: 1, Radius: 1, RMSSpeed: 1},
	},
	"hot": {
		ContainerRadius: 20, Events: 5000, StateFile: DefaultStateFile,
		Generate: GenConfig{Balls: 15, Mass: 1, Radius: 0.5, RMSSpeed: 25},
	},
	"heavy": {
		ContainerRadius: 15, Events: 2000, StateFile: DefaultStateFile,
		Generate: GenConfig{Balls: 12, Mass: 10, Radius: 1, RMSSpeed: 3},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
