package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Charset_AddCharacter_rejectsDuplicateName(t *testing.T) {
	cs := New("test")
	require.NoError(t, cs.AddCharacter(Character{Name: "tinco", FontCode: 1}))

	err := cs.AddCharacter(Character{Name: "tinco", FontCode: 2})
	assert.Error(t, err)
}

func Test_Charset_AddVirtual_rejectsNameAlreadyUsedByCharacter(t *testing.T) {
	cs := New("test")
	require.NoError(t, cs.AddCharacter(Character{Name: "tinco", FontCode: 1}))

	err := cs.AddVirtual(VirtualChar{Name: "tinco"})
	assert.Error(t, err)
}

func Test_Charset_Has_findsEitherKind(t *testing.T) {
	cs := New("test")
	require.NoError(t, cs.AddCharacter(Character{Name: "tinco", FontCode: 1}))
	require.NoError(t, cs.AddVirtual(VirtualChar{Name: "long_a"}))

	assert.True(t, cs.Has("tinco"))
	assert.True(t, cs.Has("long_a"))
	assert.False(t, cs.Has("nope"))
}

func Test_Charset_Names_preservesDeclarationOrder(t *testing.T) {
	cs := New("test")
	require.NoError(t, cs.AddCharacter(Character{Name: "c", FontCode: 1}))
	require.NoError(t, cs.AddVirtual(VirtualChar{Name: "b"}))
	require.NoError(t, cs.AddCharacter(Character{Name: "a", FontCode: 2}))

	assert.Equal(t, []string{"c", "b", "a"}, cs.Names())
}

func Test_Charset_Character_distinguishesDeclaredZeroCodePoint(t *testing.T) {
	cs := New("test")
	require.NoError(t, cs.AddCharacter(Character{Name: "no_codepoint", FontCode: 1}))
	require.NoError(t, cs.AddCharacter(Character{Name: "zero_codepoint", FontCode: 2, CodePoint: 0, HasCodePoint: true}))

	noCP, ok := cs.Character("no_codepoint")
	require.True(t, ok)
	assert.False(t, noCP.HasCodePoint)

	zeroCP, ok := cs.Character("zero_codepoint")
	require.True(t, ok)
	assert.True(t, zeroCP.HasCodePoint)
	assert.Equal(t, rune(0), zeroCP.CodePoint)
}

func Test_Flag_Has_requiresAllBits(t *testing.T) {
	f := FlagVowel | FlagSpace

	assert.True(t, f.Has(FlagVowel))
	assert.True(t, f.Has(FlagVowel|FlagSpace))
	assert.False(t, f.Has(FlagVowel|FlagConsonant))
}

func Test_Charset_IsVirtual(t *testing.T) {
	cs := New("test")
	require.NoError(t, cs.AddCharacter(Character{Name: "tinco", FontCode: 1}))
	require.NoError(t, cs.AddVirtual(VirtualChar{Name: "long_a"}))

	assert.True(t, cs.IsVirtual("long_a"))
	assert.False(t, cs.IsVirtual("tinco"))
	assert.False(t, cs.IsVirtual("nope"))
}
