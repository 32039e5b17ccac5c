package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())

	got, err = GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)

	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	_, err = GetPassword(&out)
	assert.Error(t, err)
}

func TestGetWithDefault(t *testing.T) {
	var out bytes.Buffer

	v, err := GetWithDefault(rdr("\n"), "Intention", "ship it", &out)
	require.NoError(t, err)
	assert.Equal(t, "ship it", v)
	assert.Contains(t, out.String(), "Intention [ship it]")

	v, err = GetWithDefault(rdr("-\n"), "Intention", "ship it", &out)
	require.NoError(t, err)
	assert.Empty(t, v)

	v, err = GetWithDefault(rdr("rest\n"), "Intention", "ship it", &out)
	require.NoError(t, err)
	assert.Equal(t, "rest", v)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList(" a, b,,c ,"))
	assert.Equal(t, []string{}, SplitList(""))
}
