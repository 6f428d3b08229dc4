package models

// AppSettings represents application-wide settings
type AppSettings struct {
	IsDarkMode           bool   `json:"isDarkMode"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	DailyReminderTime    string `json:"dailyReminderTime"` // HH:MM
	WeeklyReviewDay      int    `json:"weeklyReviewDay"`   // 0 = Sunday
	UserName             string `json:"userName"`
	Timezone             string `json:"timezone"` // IANA name or "Local"
}

// UserProfile is captured during onboarding
type UserProfile struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	CreatedAt  int64  `json:"createdAt"`
}
