// Package hooks contains the built-in source-protection hooks.
package hooks

import (
	"github.com/klauern/source-protection/internal/constants"
	"github.com/klauern/source-protection/internal/core"
)

// init registers all built-in hooks using batch registration
func init() {
	builtinHooks := map[string]core.HookFactory{
		constants.HookHideSource:     NewHideSourceHook,
		constants.HookDisableActions: NewDisableActionsHook,
		constants.HookReadOnlyForm:   NewReadOnlyFormHook,
	}
	core.RegisterBuiltinHooks(builtinHooks)
}
