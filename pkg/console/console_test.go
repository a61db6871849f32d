package console_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/julien-sobczak/nimbus2md/pkg/console"
	"gotest.tools/assert"
)

func TestNewProgressLog_default(t *testing.T) {
	var out bytes.Buffer

	l := console.NewProgressLog(2,
		// Override options for unit-testing purposes
		console.ToWriter(&out),
		console.LineLength(30))

	for i := range 2 + 1 {
		l.Log(i, "Processing...")
	}
	l.Clear("Done!!!!!!!!!!!!!!!!!!!!!!!!!!")

	expected := "" +
		"           (0/2) Processing...\r" +
		"#####      (1/2) Processing...\r" +
		"########## (2/2) Processing...\r" +
		"Done!!!!!!!!!!!!!!!!!!!!!!!!!!\n"
	assert.Equal(t, out.String(), expected)
}

func TestNewProgressLog_percent(t *testing.T) {
	var out bytes.Buffer

	l := console.NewProgressLog(5,
		console.ShowPercent(),
		// Override options for unit-testing purposes
		console.ToWriter(&out),
		console.LineLength(30))

	for i := range 5 + 1 {
		l.Log(i, "Processing...")
	}
	l.Clear("")

	actual := out.String()
	expected := "" +
		"           (  0%) Processing..\r" +
		"##         ( 20%) Processing..\r" +
		"####       ( 40%) Processing..\r" +
		"######     ( 60%) Processing..\r" +
		"########   ( 80%) Processing..\r" +
		"########## (100%) Processing..\r" +
		"                              \r"
	assert.Equal(t, actual, expected)
}

func TestProgressLog_advance(t *testing.T) {
	var out bytes.Buffer

	l := console.NewProgressLog(2,
		console.ToWriter(&out),
		console.LineLength(24))

	l.Advance("a.md")
	l.Advance("b.md")
	l.Advance("overflow")
	l.Clear("")

	expected := "" +
		"#####      (1/2) a.md   \r" +
		"########## (2/2) b.md   \r" +
		"########## (2/2) overflo\r" +
		"                        \r"
	assert.Equal(t, out.String(), expected)
}

func TestProgressLog_gradient(t *testing.T) {
	var out bytes.Buffer

	l := console.NewProgressLog(4,
		console.GradientBar(10),
		console.ToWriter(&out),
		console.LineLength(20))
	l.Log(2, "Half")

	assert.Assert(t, strings.HasPrefix(out.String(), "\r"))
	assert.Assert(t, strings.HasSuffix(out.String(), " (2/4) Half          "))
}
