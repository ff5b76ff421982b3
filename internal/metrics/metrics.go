package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus counters the handlers and service increment.
type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	PostsCreated       prometheus.Counter
	LikeRequests       prometheus.Counter
	ShareRequests      prometheus.Counter
	FollowRequests     prometheus.Counter
	UnfollowRequests   prometheus.Counter
	NotificationsSent  prometheus.Counter
}

// InitMetrics registers and returns the application counters.
func InitMetrics() *Metrics {
	m := &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_request",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"path"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "unsuccessful_request",
				Help: "Total number of unsuccessful (4xx/5xx) HTTP requests",
			},
			[]string{"path"},
		),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Total number of posts created",
		}),
		LikeRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "likes_total",
			Help: "Total number of successful like actions",
		}),
		ShareRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shares_total",
			Help: "Total number of successful share actions",
		}),
		FollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "follows_total",
			Help: "Total number of successful follow actions",
		}),
		UnfollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unfollows_total",
			Help: "Total number of successful unfollow actions",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications written",
		}),
	}

	prometheus.MustRegister(m.SuccessfulRequests)
	prometheus.MustRegister(m.BadRequests)
	prometheus.MustRegister(m.PostsCreated)
	prometheus.MustRegister(m.LikeRequests)
	prometheus.MustRegister(m.ShareRequests)
	prometheus.MustRegister(m.FollowRequests)
	prometheus.MustRegister(m.UnfollowRequests)
	prometheus.MustRegister(m.NotificationsSent)

	return m
}

// Middleware counts request outcomes by route path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			path := c.Path()
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			if status >= 200 && status < 400 {
				m.SuccessfulRequests.WithLabelValues(path).Inc()
			} else {
				m.BadRequests.WithLabelValues(path).Inc()
			}
			return err
		}
	}
}
