package paths

import (
	"flag"
)

// SetupFilePathFlag creates a new string flag with the passed name with a sane
// default for the path to the file, if found using the Find function. If not,
// the flag defaults to an empty string.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, Find(fileName), "Path to "+fileName)
}

// SetupPakFlag creates a new string flag taking a comma separated list of
// archives and directories, defaulting to DefaultPaks. Pass its value to
// ExpandPaks.
func SetupPakFlag(flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, DefaultPaks(), "Comma separated .pak files or directories holding them")
}
