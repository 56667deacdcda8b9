package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"work", false},
		{"my project", false},
		{"", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{"a:b", true},
		{"a\"b", true},
		{"a*b", true},
		{" leading", true},
		{"trailing ", true},
		{"double  space", true},
		{string(rune(0x01)) + "ctrl", true},
	}

	for _, tc := range cases {
		err := ValidateSessionName(tc.name)
		if tc.wantErr {
			assert.Errorf(t, err, "expected error for %q", tc.name)
		} else {
			assert.NoErrorf(t, err, "unexpected error for %q", tc.name)
		}
	}
}

func TestValidateSessionNameMaxLength(t *testing.T) {
	long := make([]byte, maxSessionNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.Error(t, ValidateSessionName(string(long)))
}

func TestValidateArchivedNameFormat(t *testing.T) {
	assert.NoError(t, ValidateArchivedNameFormat("work-20250831-123456"))
	assert.Error(t, ValidateArchivedNameFormat("work"))
	assert.Error(t, ValidateArchivedNameFormat("../../../etc-passwd-20250831-123456"))
	assert.Error(t, ValidateArchivedNameFormat(".."))
	assert.Error(t, ValidateArchivedNameFormat("a/b-20250831-123456"))
}

func TestSplitArchivedName(t *testing.T) {
	prefix, timestamp, ok := SplitArchivedName("work-20250831-123456")
	assert.True(t, ok)
	assert.Equal(t, "work", prefix)
	assert.Equal(t, "20250831-123456", timestamp)

	_, _, ok = SplitArchivedName("not-a-valid-name")
	assert.False(t, ok)
}

func TestEnsureExistsArchivedRejectsTraversal(t *testing.T) {
	s := &Store{}
	s.Paths.Archived = t.TempDir()

	err := s.EnsureExistsArchived("../../../etc-passwd-20250831-123456")
	assert.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}
