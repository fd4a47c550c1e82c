package core

import "github.com/klauern/source-protection/internal/host"

// Decision is the outcome a hook reports back to the host
type Decision string

// Decisions reported by hooks and counted by the dispatcher
const (
	DecisionContinue Decision = "continue"
	DecisionDeny     Decision = "deny"
	DecisionFiltered Decision = "filtered"
	DecisionRedirect Decision = "redirect"
)

// Result is returned by hooks that may veto host processing.
// Message is set only on denial.
type Result struct {
	Decision Decision
	Message  *host.Message
	Reason   string
}

// Continue lets the host proceed.
func Continue() Result {
	return Result{Decision: DecisionContinue}
}

// Deny aborts the host operation and carries msg to the end user.
// The optional reason names the rule that matched and is only used for logging.
//
// Usage:
//
//	return core.Deny(h.Context().Messages.Msg(constants.MsgNoAccess), policy.ReasonDiff)
func Deny(msg *host.Message, reason ...string) Result {
	r := Result{Decision: DecisionDeny, Message: msg}
	if len(reason) > 0 {
		r.Reason = reason[0]
	}
	return r
}

// Allowed reports whether the host may proceed.
func (r Result) Allowed() bool {
	return r.Decision != DecisionDeny
}
