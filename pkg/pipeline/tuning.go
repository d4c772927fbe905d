package pipeline

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadOptions reads a TOML tuning file into Options and fills missing
// fields with the defaults. A typical file:
//
//	seed = 7
//	hidden = [3]
//
//	[force]
//	repulsion_constant = 1.5
//	theta = 0.5
//
//	[community]
//	resolution = 1.2
//
//	[circular]
//	generations = 200
func LoadOptions(path string) (Options, error) {
	var opts Options
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return Options{}, fmt.Errorf("load tuning %s: %w", path, err)
	}
	opts.SetDefaults()
	return opts, nil
}
