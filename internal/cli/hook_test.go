package cli

import (
	"strings"
	"testing"
)

func TestGenerateHookScript(t *testing.T) {
	script := generateHookScript(7)

	if !strings.Contains(script, hookMarkerStart) {
		t.Error("Script missing start marker")
	}
	if !strings.Contains(script, hookMarkerEnd) {
		t.Error("Script missing end marker")
	}
	if !strings.Contains(script, "reviewhub check staged --project 7") {
		t.Error("Script missing reviewhub command with project flag")
	}
	if !strings.Contains(script, "REVIEWHUB_EXIT=$?") {
		t.Error("Script missing exit code capture")
	}
	if !strings.Contains(script, "exit 1") {
		t.Error("Script missing exit 1 for blocked commits")
	}
	if !strings.Contains(script, "allowing commit") {
		t.Error("Script missing warning for errors")
	}
}

func TestReplaceHookSection_NoExisting(t *testing.T) {
	existing := "#!/bin/sh\nsome-other-hook\n"
	section := generateHookScript(1)

	result := replaceHookSection(existing, section)

	if !strings.HasPrefix(result, "#!/bin/sh\nsome-other-hook\n") {
		t.Error("Existing content should be preserved")
	}
	if !strings.Contains(result, hookMarkerStart) {
		t.Error("New section should be appended")
	}
}

func TestReplaceHookSection_ExistingSection(t *testing.T) {
	oldSection := generateHookScript(1)
	existing := "#!/bin/sh\nbefore\n" + oldSection + "after\n"
	newSection := generateHookScript(2)

	result := replaceHookSection(existing, newSection)

	if !strings.Contains(result, "before") {
		t.Error("Content before section should be preserved")
	}
	if !strings.Contains(result, "after") {
		t.Error("Content after section should be preserved")
	}
	if !strings.Contains(result, "--project 2") {
		t.Error("New section should have the updated project id")
	}
	if strings.Contains(result, "--project 1") {
		t.Error("Old section should be replaced")
	}
}

func TestRemoveHookSection(t *testing.T) {
	section := generateHookScript(1)
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := removeHookSection(existing)

	if strings.Contains(result, hookMarkerStart) {
		t.Error("Hook section should be removed")
	}
	if !strings.Contains(result, "before") {
		t.Error("Content before should be preserved")
	}
	if !strings.Contains(result, "after") {
		t.Error("Content after should be preserved")
	}
}

func TestRemoveHookSection_NoSection(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook\n"
	if result := removeHookSection(existing); result != existing {
		t.Error("Content without a reviewhub section should be unchanged")
	}
}

func TestReplaceHookSection_NoTrailingNewline(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook"
	result := replaceHookSection(existing, generateHookScript(1))

	if !strings.Contains(result, "some-hook") {
		t.Error("Existing content should be preserved")
	}
	if !strings.Contains(result, hookMarkerStart) {
		t.Error("Section should be appended")
	}
}
