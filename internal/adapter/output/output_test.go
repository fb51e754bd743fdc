package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/eventloop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// lifecycle runs a toast to removal and returns every record.
func lifecycle(t *testing.T) []Record {
	t.Helper()
	sched := eventloop.NewManual(epoch)
	m := toast.NewManager(dom.NewDocument(), sched, toast.DefaultOptions(), nil)

	var records []Record
	m.AddObserver(toast.ObserverFuncs{
		Shown: func(ts *toast.Toast) {
			records = append(records, NewRecord(ts, "", sched.Now()))
		},
		Transitioned: func(ts *toast.Toast, _, _ model.State, ev toast.Event) {
			records = append(records, NewRecord(ts, ev.String(), sched.Now()))
		},
	})
	m.Notify("success", "Profile saved")
	sched.Advance(10 * time.Second)
	require.Len(t, records, 3)
	return records
}

func TestNewRecord(t *testing.T) {
	records := lifecycle(t)

	assert.Equal(t, model.StateShowing, records[0].State)
	assert.Empty(t, records[0].Event)
	assert.Zero(t, records[0].Elapsed)
	assert.Equal(t, "Success", records[0].Title)

	assert.Equal(t, "expire", records[1].Event)
	assert.Equal(t, model.StateDismissing, records[1].State)
	assert.Equal(t, 5*time.Second, records[1].Elapsed)
	assert.Empty(t, records[1].Reason)

	assert.Equal(t, "exit-done", records[2].Event)
	assert.Equal(t, model.StateRemoved, records[2].State)
	assert.Equal(t, "expired", records[2].Reason)
}

func TestNewFormatter(t *testing.T) {
	for _, f := range FormatTypes() {
		t.Run(string(f), func(t *testing.T) {
			got, err := NewFormatter(f, FormatterOptions{})
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}

	_, err := NewFormatter("xml", FormatterOptions{})
	assert.ErrorContains(t, err, `unknown output format "xml"`)

	_, err = NewFormatter(FormatText, FormatterOptions{Template: "{{.Nope"})
	assert.ErrorContains(t, err, "invalid template")
}

func TestTextFormatter(t *testing.T) {
	f, err := NewTextFormatter(FormatterOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	for _, r := range lifecycle(t) {
		require.NoError(t, f.Format(&buf, r))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "09:00:00.000 showing    success  Success: Profile saved", lines[0])
	assert.Equal(t, "09:00:05.000 dismissing success  Success: Profile saved (expire after 5,000ms)", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "(exit-done after 5,300ms) [expired]"))
}

func TestTextFormatter_TemplateAndTruncation(t *testing.T) {
	r := lifecycle(t)[2]

	f, err := NewTextFormatter(FormatterOptions{Template: "{{.ToastID | lower | len}} {{.State}} {{upper .Reason}} {{elapsed .Elapsed}}"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, r))
	assert.Equal(t, "26 removed EXPIRED 5,300ms\n", buf.String())

	short, err := NewTextFormatter(FormatterOptions{BodyMaxLen: 8})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, short.Format(&buf, r))
	assert.Contains(t, buf.String(), "Success: Profi...")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()
	for _, r := range lifecycle(t) {
		require.NoError(t, f.Format(&buf, r))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &got))
	assert.Equal(t, "removed", got["state"])
	assert.Equal(t, "expired", got["reason"])
	assert.Equal(t, "exit-done", got["event"])
	assert.EqualValues(t, 5300, got["elapsed_ms"])
	assert.Equal(t, "success", got["kind"])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewYAMLFormatter()
	for _, r := range lifecycle(t) {
		require.NoError(t, f.Format(&buf, r))
	}

	dec := yaml.NewDecoder(&buf)
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			break
		}
		docs = append(docs, doc)
	}
	require.Len(t, docs, 3)
	assert.Equal(t, "showing", docs[0]["state"])
	assert.NotContains(t, docs[0], "event")
	assert.Equal(t, "5.3s", docs[2]["elapsed"])
	assert.Equal(t, "Profile saved", docs[2]["message"])
}

func TestIDsFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewIDsFormatter()
	records := lifecycle(t)
	for _, r := range records {
		require.NoError(t, f.Format(&buf, r))
	}
	assert.Equal(t, records[0].ToastID+"\n", buf.String())
}
