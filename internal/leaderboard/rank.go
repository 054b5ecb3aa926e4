// Package leaderboard ranks users by hot dogs consumed within a time window.
package leaderboard

import (
	"sort"
	"time"

	"github.com/baker339/DOGR/internal/models"
)

// Badge is the presentation class of a list position.
type Badge string

const (
	Gold   Badge = "gold"
	Silver Badge = "silver"
	Bronze Badge = "bronze"
	None   Badge = "none"
)

// BadgeFor classifies a 1-based position.
func BadgeFor(position int) Badge {
	switch position {
	case 1:
		return Gold
	case 2:
		return Silver
	case 3:
		return Bronze
	}
	return None
}

// Entry is one ranked user.
type Entry struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Total    int64  `json:"hotDogsConsumed"`
	Position int    `json:"position"`
	Badge    Badge  `json:"badge"`
	// GlobalPosition is the entry's position in the global list.
	GlobalPosition int `json:"globalPosition"`
}

// Board holds the global ranking and the viewer's circle.
type Board struct {
	Window Window  `json:"window"`
	Global []Entry `json:"global"`
	Circle []Entry `json:"circle"`
}

// Totals sums hotDogsConsumed per author over the posts inside window at now.
func Totals(posts []models.Post, window Window, now time.Time) map[string]int64 {
	totals := make(map[string]int64)
	for _, p := range posts {
		if window.Contains(p.CreatedAt, now) {
			totals[p.UserID] += int64(p.HotDogsConsumed)
		}
	}
	return totals
}

// Compute ranks users by their consumption inside window at now and derives
// the circle of viewerID.
func Compute(users []models.User, posts []models.Post, window Window, viewerID string, now time.Time) Board {
	board := Rank(users, Totals(posts, window, now), viewerID)
	board.Window = window
	return board
}

// Rank orders users by totals, descending. Users without a total count as 0
// and ties keep the order of users. The circle is the subsequence of the
// global list made of the viewer and the accounts the viewer follows.
func Rank(users []models.User, totals map[string]int64, viewerID string) Board {
	global := make([]Entry, len(users))
	for i, u := range users {
		global[i] = Entry{UserID: u.UserID, Name: u.Name, Total: totals[u.UserID]}
	}
	sort.SliceStable(global, func(i, j int) bool { return global[i].Total > global[j].Total })
	for i := range global {
		global[i].Position = i + 1
		global[i].GlobalPosition = i + 1
		global[i].Badge = BadgeFor(i + 1)
	}

	inCircle := map[string]bool{viewerID: true}
	for _, u := range users {
		if u.UserID == viewerID {
			for _, id := range u.Following {
				inCircle[id] = true
			}
			break
		}
	}

	circle := []Entry{}
	for _, e := range global {
		if !inCircle[e.UserID] {
			continue
		}
		e.Position = len(circle) + 1
		e.Badge = BadgeFor(e.Position)
		circle = append(circle, e)
	}

	return Board{Global: global, Circle: circle}
}
