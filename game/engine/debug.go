package engine

// debugChecks guards structural invariant assertions. Violations mean the
// analyzer or the occupancy resolver was not run, which is a programming
// error, not a recoverable runtime condition.
var debugChecks = false

// EnableDebugChecks turns structural invariant panics on or off.
func EnableDebugChecks(on bool) {
	debugChecks = on
}

func debugAssert(cond bool, msg string) {
	if debugChecks && !cond {
		panic(msg)
	}
}
