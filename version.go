package ifexplore

// Version is the module version the CLI reports. Release builds override it
// with -ldflags "-X github.com/patrick-brian-mooney/IF-utils.Version=v...".
var Version = "0.9.0-dev"
