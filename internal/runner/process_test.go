package runner

import "testing"

func TestParseResult_FindsTheLastSentinelOccurrence(t *testing.T) {
	output := []byte("some chatter mentioning " + sentinel + " mid-sentence\n" +
		"more output\n" +
		sentinel + "\n" +
		`{"result": {"durationMicros": 42}}` + "\n")

	metrics, err := parseResult(output)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if metrics["durationMicros"] != 42 {
		t.Errorf("metrics = %v, want durationMicros=42", metrics)
	}
}

func TestParseResult_MissingSentinelIsAnError(t *testing.T) {
	if _, err := parseResult([]byte("no sentinel here\n")); err == nil {
		t.Error("parseResult: expected an error when the sentinel is absent")
	}
}

func TestParseResult_EmptyResultObjectIsAnError(t *testing.T) {
	output := []byte(sentinel + "\n" + `{"result": {}}` + "\n")
	if _, err := parseResult(output); err == nil {
		t.Error("parseResult: expected an error for an empty result object")
	}
}

func TestParseResult_MalformedJSONIsAnError(t *testing.T) {
	output := []byte(sentinel + "\nnot json at all\n")
	if _, err := parseResult(output); err == nil {
		t.Error("parseResult: expected an error for malformed JSON")
	}
}

func TestTokensToArgs_InterleavesKeysAndValues(t *testing.T) {
	args := []ArgToken{Str("--a", "1"), Flag("--verbose"), Str("--b", "2")}
	got := tokensToArgs(args)
	want := []string{"--a", "1", "--verbose", "--b", "2"}
	if len(got) != len(want) {
		t.Fatalf("tokensToArgs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tokensToArgs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMergeEnv_AppendsOverridesWithoutMutatingBase(t *testing.T) {
	base := []string{"PATH=/usr/bin"}
	merged := mergeEnv(base, map[string]string{"TAGUCHI_VERBOSE": "true"})
	if len(base) != 1 {
		t.Errorf("mergeEnv mutated its base slice: %v", base)
	}
	found := false
	for _, kv := range merged {
		if kv == "TAGUCHI_VERBOSE=true" {
			found = true
		}
	}
	if !found {
		t.Errorf("merged env %v missing TAGUCHI_VERBOSE=true", merged)
	}
}
