// Copyright (C) 2025, VigilantDoomer
//
// This file is part of VigilantClip library.
//
// VigilantClip is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantClip is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantClip.  If not, see <https://www.gnu.org/licenses/>.
package main

import (
	"strconv"

	clip "github.com/vigilantdoomer/vigilantclip"
)

const ( // NumericOrState.whichType values
	ARG_ENABLED = iota
	ARG_DISABLED
	ARG_IS_NUMBER
)

type NumericOrState struct {
	whichType int // see consts above
	value     int
}

// Same conventions as the nodebuilder: -x+ / -x- toggle, -x=<n> sets value
func (c *ProgramConfig) FromCommandLine(args []string) bool {
	outputModifier := false
	outputModifierUsed := false
	for _, arg := range args {
		if len(arg) < 1 {
			break
		}
		if outputModifier {
			c.DumpFileName = arg
			outputModifier = false
			continue
		}
		if arg[0] != '-' || len(arg) < 2 {
			clip.Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
			return false
		}

		switch arg[1] {
		case 's':
			{
				v, ok := positiveValue("-s", []byte(arg)[2:])
				if !ok {
					return false
				}
				c.Seed = int64(v)
			}
		case 't':
			{
				v, ok := positiveValue("-t", []byte(arg)[2:])
				if !ok {
					return false
				}
				c.Tics = v
			}
		case 'n':
			{
				v, ok := positiveValue("-n", []byte(arg)[2:])
				if !ok {
					return false
				}
				c.Things = v
			}
		case 'r':
			{
				v, ok := positiveValue("-r", []byte(arg)[2:])
				if !ok {
					return false
				}
				if v < 1 {
					clip.Log.Error("At least one replica is needed - aborting.\n")
					return false
				}
				c.Replicas = v
			}
		case 'c':
			{
				v, ok := positiveValue("-c", []byte(arg)[2:])
				if !ok {
					return false
				}
				if v < 64 {
					clip.Log.Error("Cell size %d is too small, things won't fit - aborting.\n", v)
					return false
				}
				c.CellSize = v
			}
		case 'e':
			{
				v, ok := positiveValue("-e", []byte(arg)[2:])
				if !ok {
					return false
				}
				c.DemoVersion = v
			}
		case 'g':
			{
				nos, rest := readNumeric("-g", []byte(arg)[2:])
				if nos.whichType != ARG_IS_NUMBER || len(rest) == 0 || rest[0] != ',' {
					clip.Log.Error("Expected -g=<cols>,<rows>, got '%s' - aborting.\n", arg)
					return false
				}
				t, v, rest2 := readNumericOnly(rest[1:])
				if !t || len(rest2) > 0 || nos.value < 1 || v < 1 {
					clip.Log.Error("Expected -g=<cols>,<rows>, got '%s' - aborting.\n", arg)
					return false
				}
				c.Cols = nos.value
				c.Rows = v
			}
		case 'p':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.PortalDetect = enabled
				if len(rest) > 0 {
					clip.Log.Error("Syntax error: -p parameter is followed by garbage; expected -p, -p+ or -p-, no other variants allowed.")
				}
			}
		case 'x':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.TraceThings = enabled
				if len(rest) > 0 {
					clip.Log.Error("Syntax error: -x parameter is followed by garbage; expected -x, -x+ or -x-, no other variants allowed.")
				}
			}
		case 'v':
			{
				// "count" type: -v, -vv, -vvv, etc.
				vs := 0
				barg := []byte(arg)[1:]
				for i := 0; i < len(barg); i++ {
					if barg[i] == 'v' {
						vs++
					} else {
						break
					}
				}
				c.VerbosityLevel += vs
			}
		case 'h':
			{
				c.Help = true
			}
		case 'o':
			{
				if len(arg) != 2 {
					clip.Log.Error("Unrecognized modified '%s' (expected '-o <file>', space between '-o' and file name) - aborting.\n",
						arg)
					return false
				}
				if outputModifierUsed {
					clip.Log.Error("Can't specify output file twice - aborting.\n")
					return false
				}
				outputModifier = true
				outputModifierUsed = true
			}
		default:
			{
				clip.Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
				return false
			}
		}
	}
	if outputModifier {
		clip.Log.Error("Modifier '-o' was present without a file name following it - aborting.\n")
		return false
	}
	return true
}

// -x=<n> only, toggles make no sense for these
func positiveValue(prefix string, arg []byte) (int, bool) {
	nos, rest := readNumeric(prefix, arg)
	if nos.whichType != ARG_IS_NUMBER {
		clip.Log.Error("Expected %s=<number> - aborting.\n", prefix)
		return 0, false
	}
	if len(rest) > 0 {
		clip.Log.Error("Syntax error: %s value is followed by garbage '%s' - aborting.\n",
			prefix, string(rest))
		return 0, false
	}
	return nos.value, true
}

func isEnabled(arg []byte) (bool, []byte) {
	if len(arg) == 0 {
		return true, arg
	}
	if arg[0] == '+' {
		return true, arg[1:]
	} else if arg[0] == '-' {
		return false, arg[1:]
	} else {
		return true, arg
	}
}

// a+, a-, or a=<numeric_value_without_sign>
func readNumeric(prefix string, arg []byte) (NumericOrState, []byte) {
	if len(arg) == 0 {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
	if arg[0] == '+' {
		return NumericOrState{whichType: ARG_ENABLED}, arg[1:]
	} else if arg[0] == '-' {
		return NumericOrState{whichType: ARG_DISABLED}, arg[1:]
	} else if arg[0] == '=' {
		t, v, rest := readNumericOnly(arg[1:])
		if t {
			return NumericOrState{
				whichType: ARG_IS_NUMBER,
				value:     v,
			}, rest
		} else {
			clip.Log.Error("Couldn't properly parse '%s=%s'.\n", prefix, string(arg))
			return NumericOrState{
				whichType: ARG_ENABLED,
			}, arg[:0]
		}
	} else {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
}

func readNumericOnly(arg []byte) (bool, int, []byte) {
	if len(arg) == 0 {
		return false, 0, arg
	}
	l := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if '0' <= c && c <= '9' {
			l++
		} else {
			break
		}
	}
	if l > 0 {
		v, err := strconv.Atoi(string(arg[:l]))
		if err != nil {
			clip.Log.Error("value '%s' was too big to interpret as int.\n",
				string(arg[:l]))
			return false, 0, arg[l:]
		}
		return true, v, arg[l:]
	}
	return false, 0, arg
}
