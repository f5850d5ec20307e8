package task

import "strings"

// CorrectiveDueDays returns how many days after today a corrective task is due.
// A positive override wins; otherwise urgency decides, defaulting to Medium.
func CorrectiveDueDays(urgency string, override int) int {
	if override > 0 {
		return override
	}
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case "critical":
		return 1
	case "high":
		return 2
	case "low":
		return 7
	default:
		return 5
	}
}

// CorrectivePriority maps an urgency tier onto a task priority.
// Critical has no priority of its own and becomes High.
func CorrectivePriority(urgency string) string {
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case "critical", "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// CorrectiveNotes builds the notes of a corrective task.
func CorrectiveNotes(reason, originalTaskID, extra string) string {
	if strings.TrimSpace(reason) == "" {
		reason = "Follow-up work identified"
	}
	lines := []string{
		"Corrective action required: " + reason,
		"Original task: " + originalTaskID,
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		lines = append(lines, extra)
	}
	return strings.Join(lines, "\n")
}

// AppendNote adds a line to existing task notes.
func AppendNote(notes, line string) string {
	if strings.TrimSpace(notes) == "" {
		return line
	}
	return notes + "\n" + line
}
