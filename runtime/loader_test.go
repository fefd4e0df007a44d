package runtime

import (
	"chat-relay/errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestDictionaryLoader_Merges_And_Dedupes(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("badger\nsnake\r\nbadger\n\n  mushroom  \n")},
		"censored/fr.txt": {Data: []byte("vipere\nsnake\n")},
		"censored/README": {Data: []byte("not a dictionary")},
	}

	dict, err := NewDictionaryLoader(fsys).Load("censored")

	req.NoError(err)
	// Deduplicated across files, trimmed, sorted
	req.Equal([]string{"badger", "mushroom", "snake", "vipere"}, dict.Words)
	req.Equal([]string{"en", "fr"}, dict.Languages)
}

func TestDictionaryLoader_Fails_On_Empty_Dictionaries(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"censored/en.txt": {Data: []byte("\n  \n")},
	}

	_, err := NewDictionaryLoader(fsys).Load("censored")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestDictionaryLoader_Fails_On_Missing_Directory(t *testing.T) {
	req := require.New(t)

	_, err := NewDictionaryLoader(fstest.MapFS{}).Load("censored")

	req.Error(err)
}
