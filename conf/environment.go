package conf

import "fmt"

// EnvironmentEnum runtime environment
type EnvironmentEnum int

const (
	LocalEnvironmentEnum EnvironmentEnum = iota
	MainnetEnvironmentEnum
	TestnetEnvironmentEnum
	ExampleEnvironmentEnum
)

// SystemEnvironmentEnum current environment, set by cmd from the -env flag
var SystemEnvironmentEnum = MainnetEnvironmentEnum

// ConfigDir directory holding conf_<env>.yaml files
var ConfigDir = "./conf"

// String returns the short environment name used in config file names
func (e EnvironmentEnum) String() string {
	switch e {
	case LocalEnvironmentEnum:
		return "loc"
	case TestnetEnvironmentEnum:
		return "testnet"
	case ExampleEnvironmentEnum:
		return "example"
	default:
		return "mainnet"
	}
}

// ParseEnvironment maps the -env flag value to an EnvironmentEnum
func ParseEnvironment(env string) (EnvironmentEnum, error) {
	switch env {
	case "loc":
		return LocalEnvironmentEnum, nil
	case "mainnet":
		return MainnetEnvironmentEnum, nil
	case "testnet":
		return TestnetEnvironmentEnum, nil
	case "example":
		return ExampleEnvironmentEnum, nil
	}
	return MainnetEnvironmentEnum, fmt.Errorf("unknown environment: %s", env)
}

// GetYaml returns the config file path for the current environment
func GetYaml() string {
	return fmt.Sprintf("%s/conf_%s.yaml", ConfigDir, SystemEnvironmentEnum.String())
}
