package derive

// Character dialogue lines per deadline bucket. The character is a
// smug taskmaster who taunts the user as a deadline closes in. Each
// bucket has a fixed ordered list; selection is by task id so the
// same task always provokes the same line.
var dialogues = map[DeadlineBucket][]string{
	BucketThirtyMinutes: {
		"Ha! Thirty minutes left. Don't tell me you haven't started.",
		"Thirty minutes to go. Sitting still would be a bold choice!",
		"Ha! Half an hour is plenty. If you start right now, that is!",
		"Thirty minutes on the clock. Feeling the heat yet?",
		"Still feeling relaxed? You have thirty minutes, you know!",
	},
	BucketFiveMinutes: {
		"Ha! Five minutes left. Surely you're done already?",
		"Five minutes! I can hear the deadline whistling past!",
		"Only five minutes now. Those hands better be moving!",
		"Ha! Five minutes. Stop now and it's all over!",
		"Five minutes remain. Ready to face the music?",
	},
	BucketOverdue: {
		"Ha! It's done for. The deadline is long gone!",
		"Time's up! Next time try starting early, hmm?",
		"Ha! Care to explain why you didn't make it?",
		"Past the deadline! This is what putting it off gets you!",
		"Ha! The fact that you didn't do it isn't going anywhere!",
	},
}

// SelectDialogue returns the dialogue line for the given bucket and
// task id. The same (bucket, taskID) pair always yields the same line:
// index = taskID mod list length. BucketNone yields an empty string and
// the caller suppresses the display.
func SelectDialogue(bucket DeadlineBucket, taskID int) string {
	lines, ok := dialogues[bucket]
	if !ok || len(lines) == 0 {
		return ""
	}
	idx := taskID % len(lines)
	if idx < 0 {
		idx += len(lines)
	}
	return lines[idx]
}
