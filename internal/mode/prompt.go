package mode

var prompts = map[string]string{
	"squat.help":      "Stand side-on to the camera and sink into a squat. Hold it.",
	"squat_reps.help": "Stand side-on to the camera. Squat below the line and stand back up.",
	"balance.help":    "Stand on your right leg and lift your left foot above the right knee.",
	"lunge.help":      "Step forward into a lunge with your left leg and hold.",
	"rps.help":        "Show one hand to the camera and make rock, paper or scissors.",

	"pose.undetected": "Step back until your hip, knee and ankle are in view.",
	"hand.undetected": "Put one hand in the middle of the frame, palm facing the camera.",

	"squat.upright": "Standing too upright",
	"squat.half":    "Half squat, nice",
	"squat.deep":    "Deep squat, strong",

	"balance.straight": "Bend your lifted knee more",
	"balance.lift":     "Lift your foot higher",
	"balance.hold":     "Balanced, hold it",

	"lunge.higher": "Go lower",
	"lunge.hold":   "Good lunge, hold it",
	"lunge.deep":   "Too deep, come up a little",

	"rps.rock":     "Rock",
	"rps.paper":    "Paper",
	"rps.scissors": "Scissors",
	"rps.unknown":  "Not sure, try again",
}

// Prompt returns the display text for key, or the key itself when no text
// is registered.
func Prompt(key string) string {
	if p, ok := prompts[key]; ok {
		return p
	}
	return key
}
