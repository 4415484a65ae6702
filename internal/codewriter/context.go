package codewriter

// Context carries the run-wide translation state shared by every unit of a
// single run: the call-site stack. The stack records callee names in call
// order and is push-only; Return never pops it. Its top element names the
// label-scoping context and the caller identity for return addresses.
type Context struct {
	callSites []string
}

func NewContext() *Context {
	return &Context{}
}

func (c *Context) pushCallSite(function string) {
	c.callSites = append(c.callSites, function)
}

// currentFunction returns the most recently called function name, or the
// empty string before any call has been emitted.
func (c *Context) currentFunction() string {
	if len(c.callSites) == 0 {
		return ""
	}
	return c.callSites[len(c.callSites)-1]
}

// occurrences counts how often function appears anywhere in the call-site
// stack. Used to number return-address labels of repeated calls from the
// same context.
func (c *Context) occurrences(function string) int {
	n := 0
	for _, site := range c.callSites {
		if site == function {
			n++
		}
	}
	return n
}
