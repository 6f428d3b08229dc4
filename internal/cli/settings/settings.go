package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/models"
	"github.com/julianstephens/planner/internal/utils"
)

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type SettingsCmd struct {
	List bool `help:"List current settings."`

	DarkMode             *bool   `help:"Prefer the dark theme."`
	NotificationsEnabled *bool   `help:"Enable or disable notifications."`
	DailyReminderTime    *string `help:"Time of the daily reminder (HH:MM)."`
	WeeklyReviewDay      *string `help:"Day of the weekly review (sunday..saturday)."`
	UserName             *string `help:"Name shown in greetings."`
	Timezone             *string `help:"IANA timezone used for day boundaries, or Local."`
}

func parseWeekday(s string) (int, error) {
	for i, d := range weekdays {
		if strings.EqualFold(d, s) || strings.EqualFold(d[:3], s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

func (c *SettingsCmd) Validate() error {
	if c.DailyReminderTime != nil {
		if !utils.ValidateTimeFormat(*c.DailyReminderTime) {
			return fmt.Errorf("invalid daily reminder time %q (expected HH:MM)", *c.DailyReminderTime)
		}
	}
	if c.WeeklyReviewDay != nil {
		if _, err := parseWeekday(*c.WeeklyReviewDay); err != nil {
			return err
		}
	}
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
	}
	return nil
}

func printSettings(s models.AppSettings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Dark Mode:             %v\n", s.IsDarkMode)
	fmt.Printf("  User Name:             %s\n", s.UserName)
	fmt.Printf("  Timezone:              %s\n", s.Timezone)
	fmt.Println("\nNotification Settings:")
	fmt.Printf("  Notifications Enabled: %v\n", s.NotificationsEnabled)
	fmt.Printf("  Daily Reminder:        %s\n", s.DailyReminderTime)
	fmt.Printf("  Weekly Review:         %s\n", weekdays[s.WeeklyReviewDay%7])
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(settings)
		return nil
	}

	updated := false
	if c.DarkMode != nil {
		settings.IsDarkMode = *c.DarkMode
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.DailyReminderTime != nil {
		settings.DailyReminderTime = *c.DailyReminderTime
		updated = true
	}
	if c.WeeklyReviewDay != nil {
		day, _ := parseWeekday(*c.WeeklyReviewDay)
		settings.WeeklyReviewDay = day
		updated = true
	}
	if c.UserName != nil {
		settings.UserName = strings.TrimSpace(*c.UserName)
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
		if c.Timezone != nil {
			fmt.Println("The new timezone applies from the next command.")
		}
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}

type ProfileCmd struct {
	Show ProfileShowCmd `cmd:"" default:"1" help:"Show the user profile."`
	Set  ProfileSetCmd  `cmd:"" help:"Update the user profile."`
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.Store.GetUserProfile()
	if err != nil {
		return err
	}
	if profile == nil {
		fmt.Println("No profile yet. Run 'planner profile set --name <name>'.")
		return nil
	}

	fmt.Printf("Name:       %s\n", profile.Name)
	if profile.Email != "" {
		fmt.Printf("Email:      %s\n", profile.Email)
	}
	if profile.Occupation != "" {
		fmt.Printf("Occupation: %s\n", profile.Occupation)
	}
	fmt.Printf("Since:      %s\n", utils.FormatDay(profile.CreatedAt, ctx.Store.Location()))
	return nil
}

type ProfileSetCmd struct {
	Name       *string `help:"Display name."`
	Email      *string `help:"Email address."`
	Occupation *string `help:"Occupation."`
	Avatar     *string `help:"Avatar emoji or URL."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	current, err := ctx.Store.GetUserProfile()
	if err != nil {
		return err
	}
	profile := models.UserProfile{}
	if current != nil {
		profile = *current
	}

	if c.Name != nil {
		profile.Name = strings.TrimSpace(*c.Name)
	}
	if c.Email != nil {
		profile.Email = strings.TrimSpace(*c.Email)
	}
	if c.Occupation != nil {
		profile.Occupation = strings.TrimSpace(*c.Occupation)
	}
	if c.Avatar != nil {
		profile.Avatar = *c.Avatar
	}
	if profile.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}

	if err := ctx.Store.SaveUserProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	// A saved profile finishes onboarding, so startup stops pulling.
	if err := ctx.Store.SetOnboardingComplete(true); err != nil {
		return fmt.Errorf("failed to mark onboarding complete: %w", err)
	}
	fmt.Println("Profile saved.")
	return nil
}
