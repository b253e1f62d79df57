package services

import (
	"fmt"
	"regexp"
	"strings"
)

type NotificationKind string

const (
	KindDailySummary   NotificationKind = "daily_summary"
	KindStreakReminder NotificationKind = "streak_reminder"
	KindReEngagement   NotificationKind = "re_engagement"
	KindGoalAchieved   NotificationKind = "goal_achieved"
)

type notificationTemplate struct {
	Title string
	Body  string
}

// The kind set is closed; adding a notification means adding a row here.
var notificationTemplates = map[NotificationKind]notificationTemplate{
	KindDailySummary: {
		Title: "Your day in review 📊",
		Body:  "You logged {{calories}} of {{target_calories}} kcal and {{water}} of {{target_water}} ml of water today. {{verdict}}",
	},
	KindStreakReminder: {
		Title: "Don't break the chain 🔥",
		Body:  "You haven't logged anything today. Your {{streak_days}}-day streak is on the line!",
	},
	KindReEngagement: {
		Title: "We miss you 👋",
		Body:  "It's been {{inactive_days}} days since your last visit. Your goals are still waiting.",
	},
	KindGoalAchieved: {
		Title: "Goal achieved 🎉",
		Body:  "You hit your calorie target of {{target_calories}} kcal today. Keep it up!",
	},
}

var placeholderRe = regexp.MustCompile(`{{(.*?)}}`)

// RenderTemplate substitutes {{key}} placeholders in one pass. A present,
// non-nil variable renders via fmt.Sprint; anything else renders empty.
// Unknown kinds yield empty title and body, which callers must treat as
// "do not send".
func RenderTemplate(kind NotificationKind, variables map[string]any) (title, body string) {
	tpl, ok := notificationTemplates[kind]
	if !ok {
		return "", ""
	}
	sub := func(text string) string {
		return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
			key := strings.TrimSpace(match[2 : len(match)-2])
			v, ok := variables[key]
			if !ok || v == nil {
				return ""
			}
			return fmt.Sprint(v)
		})
	}
	return sub(tpl.Title), sub(tpl.Body)
}
