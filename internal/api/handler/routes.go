package handler

import (
	"net/http"

	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/api/handler/router"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/authenticating"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/internal/usecases/tracking"
	"github.com/Wisdomcg-ai/wisdom-business-intelligence-sub006/pkg/middleware"
)

const businessPath = "/v1/businesses/:business_id"

func businessScoped() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{middleware.AllRoles(), middleware.BusinessAccess()}
}

func Healthcheck(checks map[string]HealthCheck) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(checks),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me/password",
			Method:      http.MethodPut,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Scorecard(service tracking.Tracker) []router.Route {
	return []router.Route{
		{
			Path:        businessPath + "/scorecard",
			Method:      http.MethodGet,
			Handler:     GetScorecard(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/weeks",
			Method:      http.MethodGet,
			Handler:     ListWeeks(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/weeks/:week_key/metrics/:field",
			Method:      http.MethodPut,
			Handler:     UpdateMetric(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/weeks/:week_key/notes",
			Method:      http.MethodPut,
			Handler:     UpdateNotes(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/settings",
			Method:      http.MethodGet,
			Handler:     GetSettings(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/settings",
			Method:      http.MethodPut,
			Handler:     UpdateSettings(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/preferences",
			Method:      http.MethodGet,
			Handler:     GetPreferences(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/preferences",
			Method:      http.MethodPut,
			Handler:     UpdatePreferences(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/targets",
			Method:      http.MethodGet,
			Handler:     ListTargets(service),
			Middlewares: businessScoped(),
		},
		{
			Path:        businessPath + "/targets",
			Method:      http.MethodPut,
			Handler:     SetTarget(service),
			Middlewares: businessScoped(),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/run/:type",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
