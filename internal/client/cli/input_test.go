package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, tty bool, pw []byte, err error) {
	t.Helper()
	oldTTY, oldPW := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = oldTTY, oldPW })
	isTerminal = func(int) bool { return tty }
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetSecret_NotATerminalReadsLine(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))
	var out bytes.Buffer
	got, err := GetSecret(rdr("abc123\n"), 0, "Code", &out)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
}

func TestGetSecret_TerminalReadsWithoutEcho(t *testing.T) {
	stubTerminal(t, true, []byte(" abc123 "), nil)
	var out bytes.Buffer
	got, err := GetSecret(rdr(""), 0, "Code", &out)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)
	assert.Equal(t, "Code: \n", out.String())
}

func TestGetSecret_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))
	var out bytes.Buffer
	_, err := GetSecret(rdr(""), 0, "Code", &out)
	require.Error(t, err)
}

func TestLineReader_LeavesRestForReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("callback\ncode-123\nexit\n"))
	sc := bufio.NewScanner(&lineReader{r: in})

	require.True(t, sc.Scan())
	assert.Equal(t, "callback", sc.Text())

	code, err := GetSimpleText(in, "code", io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "code-123", code)

	require.True(t, sc.Scan())
	assert.Equal(t, "exit", sc.Text())
	assert.False(t, sc.Scan())
}
