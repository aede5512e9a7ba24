package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pevans/scribble/record"
)

// printJSON prints v as indented JSON
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

// printSummaries prints story listings in human-readable format
func printSummaries(stories []record.StorySummary) {
	if len(stories) == 0 {
		fmt.Println("No stories to display.")
		return
	}

	for _, s := range stories {
		fmt.Printf("%s  ★ %.1f\n", truncate(s.Title, 70), s.Rating)
		fmt.Printf("   by %s | %d chapters (%d/week) | %s views | %s words | %d readers\n",
			valueOr(s.Creator, "Unknown"),
			s.Chapters,
			s.ChaptersPerWeek,
			valueOr(s.Views, "?"),
			valueOr(s.Words, "?"),
			s.Readers,
		)
		if len(s.Genres) > 0 {
			fmt.Printf("   %s\n", strings.Join(s.Genres, ", "))
		}
		if s.ShortSynopsis != "" {
			fmt.Printf("   %s\n", truncate(s.ShortSynopsis, 150))
		}
		fmt.Printf("   URL: %s\n", s.URL)
		fmt.Println()
	}
}

// printUsers prints user search results as a table
func printUsers(users []record.UserResult) {
	if len(users) == 0 {
		fmt.Println("No users to display.")
		return
	}

	fmt.Printf("%-30s %s\n", "NAME", "URL")
	fmt.Println(strings.Repeat("-", 80))
	for _, u := range users {
		fmt.Printf("%-30s %s\n", truncate(u.Name, 30), u.URL)
	}
}

// printUpdates prints the latest releases table
func printUpdates(updates []record.LatestUpdate) {
	if len(updates) == 0 {
		fmt.Println("No updates to display.")
		return
	}

	for _, u := range updates {
		fmt.Printf("%s: %s\n", truncate(u.StoryName, 50), truncate(u.ChapterTitle, 40))
		fmt.Printf("   by %s | %s\n", valueOr(u.AuthorName, "Unknown"), u.LastUpdate)
		fmt.Printf("   URL: %s\n", u.ChapterURL)
	}
}

// printThreads prints forum topics as a table
func printThreads(threads []record.ForumThread) {
	if len(threads) == 0 {
		fmt.Println("No topics to display.")
		return
	}

	fmt.Printf("%-50s %-15s %s\n", "TOPIC", "LATEST REPLY", "URL")
	fmt.Println(strings.Repeat("-", 100))
	for _, t := range threads {
		fmt.Printf("%-50s %-15s %s\n", truncate(t.Title, 50), t.LatestReply, t.URL)
	}
}

// printFeed prints feed entries, newest first as the feed lists them
func printFeed(entries []record.FeedEntry) {
	if len(entries) == 0 {
		fmt.Println("No chapters to display.")
		return
	}

	for _, e := range entries {
		published := "unknown"
		if !e.PublishedAt.IsZero() {
			published = e.PublishedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%s  %s\n", published, truncate(e.Title, 70))
		fmt.Printf("   URL: %s\n", e.URL)
	}
}

// printStory prints a story page
func printStory(s *record.StoryDetail) {
	fmt.Printf("%s (#%d)\n", s.Title, s.SID)
	fmt.Printf("by %s\n\n", valueOr(s.Creator, "Unknown"))
	fmt.Printf("Rating:    %.1f (%d ratings)\n", s.Rating, s.RatingCount)
	fmt.Printf("Views:     %s\n", valueOr(s.Views, "?"))
	fmt.Printf("Favorites: %d\n", s.Favorites)
	fmt.Printf("Chapters:  %d (%d/week)\n", s.Chapters, s.ChaptersPerWeek)
	fmt.Printf("Readers:   %d\n", s.Readers)
	if len(s.Genres) > 0 {
		fmt.Printf("Genres:    %s\n", strings.Join(s.Genres, ", "))
	}
	if len(s.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", wrapText(strings.Join(s.Tags, ", "), 68))
	}
	if s.Synopsis != "" {
		fmt.Println()
		fmt.Println(wrapText(s.Synopsis, 80))
	}
	fmt.Printf("\nURL: %s\n", s.URL)
}

// printProfile prints a user profile
func printProfile(u *record.UserProfile) {
	fmt.Printf("%s (#%d)\n", u.Name, u.UID)
	if u.Disabled {
		fmt.Println(u.Bio)
		fmt.Printf("\nURL: %s\n", u.URL)
		return
	}

	fmt.Printf("Last active: %s\n", u.LastActive)
	fmt.Printf("Location:    %s\n", u.Location)
	fmt.Printf("Homepage:    %s\n", u.Homepage)
	fmt.Println()
	fmt.Printf("Series: %d | Words: %d | Views: %d | Reviews: %d | Readers: %d | Followers: %d\n",
		u.TotalSeries, u.TotalWords, u.TotalViews, u.TotalReviews, u.TotalReaders, u.TotalFollowers)
	if u.Bio != "" {
		fmt.Println()
		fmt.Println(wrapText(u.Bio, 80))
	}
	fmt.Printf("\nURL: %s\n", u.URL)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// wrapText wraps text to a maximum line width, keeping its line breaks
func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = wrapLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func wrapLine(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
