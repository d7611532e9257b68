// Package hook provides pre/post dispatch hooks for the dispatcher.
//
// Hooks intercept command dispatch for auditing, validation and input
// shaping. A PreDispatchHook runs before the selection is captured and may
// rewrite the command or cancel it. A PostDispatchHook runs after the
// result is known and may inspect or amend it.
//
// # Priority
//
// Pre-hooks run from highest to lowest priority. Post-hooks run from
// lowest to highest so the highest priority hook sees the final result.
//
//	PriorityAudit      = 1000
//	PriorityTextLimit  = 900
//	PriorityValidation = 800
//
// # Built-in Hooks
//
//   - AuditHook: logs every dispatch
//   - TextLimitHook: caps the length of inserted text
//   - ValidationHook: rejects commands with a custom check
//   - ReadOnlyHook: blocks content changes while locked
//   - TimingHook: reports dispatch durations
//
// # Usage
//
//	manager := hook.NewManager()
//	manager.Register(hook.NewAuditHook(logger))
//	manager.RegisterPre(hook.NewTextLimitHook(4096))
//
//	if manager.RunPreDispatch(&cmd, ctx) {
//	    // dispatch...
//	    manager.RunPostDispatch(&cmd, ctx, &result)
//	}
//
// The Manager is safe for concurrent use. Hooks run outside its lock.
package hook
