package glerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Location_String(t *testing.T) {
	testCases := []struct {
		name string
		loc  Location
		want string
	}{
		{"no file or line", Location{}, ""},
		{"file only", Location{File: "mode.gmd"}, "mode.gmd"},
		{"file and line", Location{File: "mode.gmd", Line: 4}, "mode.gmd:4"},
		{"file, line, and col", Location{File: "mode.gmd", Line: 4, Col: 9}, "mode.gmd:4:9"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.loc.String())
		})
	}
}

func Test_Parse_setsClassAndLocation(t *testing.T) {
	loc := Location{File: "x.gmd", Line: 2}
	err := Parse(loc, "unexpected %q", "}")

	assert.Equal(t, ClassParse, err.Class)
	assert.Equal(t, loc, err.Location)
	assert.Equal(t, `x.gmd:2: parse error: unexpected "}"`, err.Error())
}

func Test_Finalize_hasNoLocation(t *testing.T) {
	err := Finalize("unresolved variable %q", "FOO")
	assert.Equal(t, ClassFinalize, err.Class)
	assert.Equal(t, `finalize error: unresolved variable "FOO"`, err.Error())
}

func Test_FinalizeAt_hasLocation(t *testing.T) {
	loc := Location{File: "x.gmd", Line: 9}
	err := FinalizeAt(loc, "bad index")
	assert.Equal(t, loc, err.Location)
	assert.Contains(t, err.Error(), "x.gmd:9")
}

func Test_Fatal_unwrapsCause(t *testing.T) {
	cause := errors.New("trie corrupted")
	err := Fatal(cause, "unrecoverable")

	assert.Equal(t, ClassFatal, err.Class)
	assert.Same(t, cause, errors.Unwrap(err))
}

func Test_errors_Is_matchesSentinelByClass(t *testing.T) {
	parseErr := Parse(Location{}, "bad directive")
	finalizeErr := Finalize("unresolved variable %q", "FOO")
	fatalErr := Fatal(nil, "unrecoverable")

	assert.True(t, errors.Is(parseErr, ErrParse))
	assert.False(t, errors.Is(parseErr, ErrFinalize))

	assert.True(t, errors.Is(finalizeErr, ErrFinalize))
	assert.False(t, errors.Is(finalizeErr, ErrFatal))

	assert.True(t, errors.Is(fatalErr, ErrFatal))
	assert.False(t, errors.Is(fatalErr, ErrParse))
}

func Test_Warning_String(t *testing.T) {
	assert.Equal(t, "no charset active", Warnf("no charset active").String())
	assert.Equal(t, "at token 3: unresolved token", WarnfAt(3, "unresolved token").String())
}

func Test_List_accumulatesAndReportsEmpty(t *testing.T) {
	var l List
	assert.True(t, l.Empty())

	l.Add(nil)
	assert.True(t, l.Empty(), "adding nil should be a no-op")

	l.Add(Parse(Location{}, "bad directive"))
	l.Add(Finalize("missing macro option %q", "case"))

	assert.False(t, l.Empty())
	assert.Len(t, l.Errs(), 2)
	assert.Equal(t,
		"parse error: bad directive\nfinalize error: missing macro option \"case\"",
		l.Error(),
	)
}
