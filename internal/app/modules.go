package app

import (
	"github.com/specialistvlad/ipforge/internal/registry"
	"github.com/specialistvlad/ipforge/modules/iob_ctls"
	"github.com/specialistvlad/ipforge/modules/iob_gray2bin"
	"github.com/specialistvlad/ipforge/modules/iob_prio_enc"
	"github.com/specialistvlad/ipforge/modules/iob_ram_2p_tiled"
	"github.com/specialistvlad/ipforge/modules/iob_utils"
)

// coreModules is the definitive list of all modules that are compiled into
// the ipforge binary.
var coreModules = []registry.Module{
	&iob_ctls.Module{},
	&iob_utils.Module{},
	&iob_prio_enc.Module{},
	&iob_ram_2p_tiled.Module{},
	&iob_gray2bin.Module{},
}
