package service

import (
	"context"
	"time"

	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/notify"
)

const liveHistoryLimit = 50

type NotificationList struct {
	Groups []notify.Group `json:"groups"`
	Unread int            `json:"unread"`
}

type LiveEntry struct {
	model.StatusChange
	Message string `json:"message"`
}

type NotificationService struct {
	backendFor BackendFor
	feed       *notify.Feed
	events     EventRepository
	logger     logger.Logger
	now        func() time.Time
}

// events puede ser nil.
func NewNotificationService(b BackendFor, feed *notify.Feed, events EventRepository, l logger.Logger) *NotificationService {
	return &NotificationService{backendFor: b, feed: feed, events: events, logger: l, now: time.Now}
}

func isOwner(user *AuthUser) bool {
	return user.Role == RoleShopOwner
}

// List devuelve las notificaciones ordenadas y agrupadas por día. Si day no es cero,
// sólo las de ese día.
func (s *NotificationService) List(ctx context.Context, user *AuthUser, day time.Time) (*NotificationList, error) {
	items, err := s.backendFor(user.Token).ListNotifications(ctx, isOwner(user))
	if err != nil {
		return nil, mapBackendErr(err)
	}
	sorted := notify.Sort(items)
	if !day.IsZero() {
		sorted = notify.OnDay(sorted, day)
	}
	return &NotificationList{
		Groups: notify.GroupByDay(sorted, s.now()),
		Unread: notify.UnreadCount(sorted),
	}, nil
}

func (s *NotificationService) Unread(ctx context.Context, user *AuthUser) (int, error) {
	items, err := s.backendFor(user.Token).ListNotifications(ctx, isOwner(user))
	if err != nil {
		return 0, mapBackendErr(err)
	}
	return notify.UnreadCount(items), nil
}

func (s *NotificationService) Mark(ctx context.Context, user *AuthUser, id string, read bool) error {
	return mapBackendErr(s.backendFor(user.Token).MarkNotification(ctx, id, read, isOwner(user)))
}

// Live devuelve los cambios de estado recibidos por Rabbit. Tras un reinicio el feed está
// vacío y se lee el historial de Mongo.
func (s *NotificationService) Live(ctx context.Context, user *AuthUser) ([]LiveEntry, error) {
	changes := s.feed.List(user.ID)
	if len(changes) == 0 && s.events != nil {
		var err error
		changes, err = s.events.FindEventsByUserID(ctx, user.ID, liveHistoryLimit)
		if err != nil {
			return nil, err
		}
	}
	out := make([]LiveEntry, 0, len(changes))
	for _, c := range changes {
		out = append(out, LiveEntry{StatusChange: c, Message: notify.Message(c)})
	}
	return out, nil
}

// RecordStatusChange lo llama el consumer de Rabbit.
func (s *NotificationService) RecordStatusChange(ctx context.Context, c model.StatusChange) error {
	s.feed.Add(c)
	if s.events == nil {
		return nil
	}
	return s.events.AppendEvent(ctx, c)
}
