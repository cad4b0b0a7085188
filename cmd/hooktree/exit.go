package main

// exitCodeFor maps an error returned from cobra's RunE to a process exit
// code. Hook failures never reach here: commands report those by calling
// os.Exit(1) directly after printing the report, since a failed hook is
// not a usage error. Anything that does propagate as an error here -
// parse failures, name-not-found, cycles, rejected imports - is a
// configuration/usage problem.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 2
}
