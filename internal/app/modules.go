package app

import (
	"github.com/vk/streamgraph/internal/registry"
	"github.com/vk/streamgraph/modules/checks"
	"github.com/vk/streamgraph/modules/info"
	"github.com/vk/streamgraph/modules/manipulation"
	"github.com/vk/streamgraph/modules/streamcontrol"
	"github.com/vk/streamgraph/modules/writing"
)

// coreModules is the definitive list of all node kind modules compiled into
// the streamgraph binary. Order decides the catalog listing.
var coreModules = []registry.Module{
	&streamcontrol.Module{},
	&writing.Module{},
	&info.Module{},
	&checks.Module{},
	&manipulation.Module{},
}
