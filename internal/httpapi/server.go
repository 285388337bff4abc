// Package httpapi serves the ranked assignment read model over HTTP for the
// dashboard surface. Everything is recomputed from the in-memory snapshot on
// request; the API performs no writes.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/portfolio"
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/workflow"
)

// Server exposes the assignments API over one portfolio snapshot.
type Server struct {
	generator *portfolio.Generator
	accounts  []signal.AccountSignal
	log       *zap.Logger
}

// New constructs the API server.
func New(generator *portfolio.Generator, accounts []signal.AccountSignal, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{generator: generator, accounts: accounts, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/assignments", s.listAssignments)
		v1.GET("/assignments/top", s.topAssignments)
		v1.GET("/assignments/groups", s.groupedAssignments)
		v1.GET("/stats", s.stats)
		v1.GET("/operators/:id/queue", s.operatorQueue)
	}
	return router
}

func (s *Server) ranked() []workflow.Assignment {
	return s.generator.GenerateAll(s.accounts)
}

// listAssignments returns the ranked queue, optionally filtered by query
// parameters: type, stage, plan, min_arr, max_arr, min_priority, min_days,
// max_days.
func (s *Server) listAssignments(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		s.log.Warn("httpapi: rejected query",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ranked := portfolio.Filter(s.ranked(), criteria)
	c.JSON(http.StatusOK, gin.H{"assignments": ranked, "count": len(ranked)})
}

func (s *Server) topAssignments(c *gin.Context) {
	n := 10
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.log.Warn("httpapi: rejected query",
				zap.String("path", c.FullPath()),
				zap.String("n", raw))
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}
	top := portfolio.Top(s.ranked(), n)
	c.JSON(http.StatusOK, gin.H{"assignments": top, "count": len(top)})
}

func (s *Server) groupedAssignments(c *gin.Context) {
	groups := portfolio.GroupByAccount(s.ranked())
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, portfolio.Summarize(s.ranked()))
}

func (s *Server) operatorQueue(c *gin.Context) {
	operatorID := c.Param("id")
	queue := s.generator.QueueForOperator(s.accounts, operatorID)
	c.JSON(http.StatusOK, gin.H{"operator_id": operatorID, "assignments": queue, "count": len(queue)})
}

func criteriaFromQuery(c *gin.Context) (portfolio.Criteria, error) {
	var criteria portfolio.Criteria
	if raw := c.Query("type"); raw != "" {
		t := workflow.Type(raw)
		if !t.Known() {
			return portfolio.Criteria{}, errBadParam("type", raw)
		}
		criteria.Type = t
	}
	if raw := c.Query("stage"); raw != "" {
		stage := signal.RenewalStage(raw)
		if !stage.Known() {
			return portfolio.Criteria{}, errBadParam("stage", raw)
		}
		criteria.Stage = stage
	}
	if raw := c.Query("plan"); raw != "" {
		plan := signal.StrategicPlan(raw)
		criteria.Plan = &plan
	}
	var err error
	if criteria.MinARR, err = floatQuery(c, "min_arr"); err != nil {
		return portfolio.Criteria{}, err
	}
	if criteria.MaxARR, err = floatQuery(c, "max_arr"); err != nil {
		return portfolio.Criteria{}, err
	}
	if criteria.MinPriority, err = floatQuery(c, "min_priority"); err != nil {
		return portfolio.Criteria{}, err
	}
	if criteria.MinDays, err = intQuery(c, "min_days"); err != nil {
		return portfolio.Criteria{}, err
	}
	if criteria.MaxDays, err = intQuery(c, "max_days"); err != nil {
		return portfolio.Criteria{}, err
	}
	return criteria, nil
}

func floatQuery(c *gin.Context, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errBadParam(name, raw)
	}
	return value, nil
}

func intQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errBadParam(name, raw)
	}
	return &value, nil
}

type badParamError struct {
	name  string
	value string
}

func (e badParamError) Error() string {
	return "invalid " + e.name + " parameter: " + e.value
}

func errBadParam(name, value string) error {
	return badParamError{name: name, value: value}
}
