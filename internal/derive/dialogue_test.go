package derive

import "testing"

func TestSelectDialogueDeterministic(t *testing.T) {
	for bucket := range dialogues {
		first := SelectDialogue(bucket, 42)
		for i := 0; i < 5; i++ {
			if got := SelectDialogue(bucket, 42); got != first {
				t.Fatalf("bucket %v: line changed between calls: %q vs %q", bucket, first, got)
			}
		}
	}
}

func TestSelectDialogueIndexWraps(t *testing.T) {
	lines := dialogues[BucketOverdue]
	n := len(lines)

	for id := 0; id < 3*n; id++ {
		want := lines[id%n]
		if got := SelectDialogue(BucketOverdue, id); got != want {
			t.Errorf("id %d: got %q, want %q", id, got, want)
		}
	}
}

func TestSelectDialogueNoneBucket(t *testing.T) {
	if got := SelectDialogue(BucketNone, 1); got != "" {
		t.Errorf("BucketNone yielded %q, want empty", got)
	}
}

func TestSelectDialogueAllBucketsPopulated(t *testing.T) {
	for _, bucket := range []DeadlineBucket{BucketThirtyMinutes, BucketFiveMinutes, BucketOverdue} {
		if len(dialogues[bucket]) == 0 {
			t.Errorf("bucket %v has no lines", bucket)
		}
	}
}
