package zmachine

// Policy controls how the dispatcher responds to a recoverable *Error.
// Fatal error kinds (see fatalKinds) always abort regardless of policy.
type Policy int

const (
	// PolicyAbort turns every error, recoverable or not, into a fatal
	// DirectiveMessage and stops execution.
	PolicyAbort Policy = iota
	// PolicyIgnore silently resumes execution at Error.NextAddress.
	PolicyIgnore
	// PolicyWarnOnce emits one DirectiveMessage per distinct error kind,
	// then behaves like PolicyIgnore.
	PolicyWarnOnce
	// PolicyWarnAlways emits a DirectiveMessage for every occurrence,
	// then resumes.
	PolicyWarnAlways
)
