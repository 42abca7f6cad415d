// errors.go collects the parser's message templates (spec §4.5, §7): these
// strings are part of the stable native-binding contract and must not be
// reworded independently of the template in pkg/value/hash.go.
//
// © 2025 glimmer authors. MIT License.
package argparse

import "github.com/glimmer-lang/corevm/pkg/vmerr"

func missingArg(methodName, argName string) *vmerr.Error {
	return vmerr.New(vmerr.TypeError, "%s() missing required positional argument: '%s'", methodName, argName)
}

func arityError(methodName, adjective string, n, given int) *vmerr.Error {
	return vmerr.New(vmerr.ArgumentError, "%s() takes %s %d argument(s) (%d given)", methodName, adjective, n, given)
}

func duplicateArg(methodName, argName string) *vmerr.Error {
	return vmerr.New(vmerr.TypeError, "%s() got multiple values for argument '%s'", methodName, argName)
}

func unexpectedKwarg(methodName, argName string) *vmerr.Error {
	return vmerr.New(vmerr.TypeError, "%s() got an unexpected keyword argument '%s'", methodName, argName)
}
