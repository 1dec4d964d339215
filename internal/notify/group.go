// Package notify ordena, agrupa y sondea las notificaciones de órdenes.
package notify

import (
	"sort"
	"time"

	"storefront/internal/model"
)

const (
	GroupToday     = "Today"
	GroupYesterday = "Yesterday"
	GroupLastWeek  = "Last Week"
	GroupOlder     = "Older"
)

var groupOrder = []string{GroupToday, GroupYesterday, GroupLastWeek, GroupOlder}

type Group struct {
	Name  string               `json:"name"`
	Items []model.Notification `json:"items"`
}

// Sort devuelve una copia: primero las no leídas, después la más nueva primero.
func Sort(items []model.Notification) []model.Notification {
	out := make([]model.Notification, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Read != out[j].Read {
			return !out[i].Read
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// GroupByDay reparte por día calendario en la zona de now. Los grupos vacíos no se devuelven
// y el orden dentro de cada grupo se respeta.
func GroupByDay(items []model.Notification, now time.Time) []Group {
	loc := now.Location()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	weekAgo := now.AddDate(0, 0, -7)

	buckets := make(map[string][]model.Notification, len(groupOrder))
	for _, n := range items {
		ts := n.Timestamp.In(loc)
		var name string
		switch {
		case !ts.Before(today):
			name = GroupToday
		case !ts.Before(yesterday):
			name = GroupYesterday
		case ts.After(weekAgo):
			name = GroupLastWeek
		default:
			name = GroupOlder
		}
		buckets[name] = append(buckets[name], n)
	}

	var groups []Group
	for _, name := range groupOrder {
		if len(buckets[name]) == 0 {
			continue
		}
		groups = append(groups, Group{Name: name, Items: buckets[name]})
	}
	return groups
}

// OnDay filtra las notificaciones de un día calendario.
func OnDay(items []model.Notification, day time.Time) []model.Notification {
	start := startOfDay(day)
	end := start.AddDate(0, 0, 1)
	var out []model.Notification
	for _, n := range items {
		ts := n.Timestamp.In(day.Location())
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, n)
		}
	}
	return out
}

func UnreadCount(items []model.Notification) int {
	count := 0
	for _, n := range items {
		if !n.Read {
			count++
		}
	}
	return count
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
