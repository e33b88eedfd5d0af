package router

import (
	"net/http"

	"github.com/bizledger/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth      *handler.AuthHandler
	Client    *handler.ClientHandler
	Account   *handler.AccountHandler
	Category  *handler.CategoryHandler
	Tag       *handler.TagHandler
	Entry     *handler.EntryHandler
	Recurring *handler.RecurringHandler
	Employee  *handler.EmployeeHandler
	Report    *handler.ReportHandler
	Project   *handler.ProjectHandler
	Task      *handler.TaskHandler
	Timeline  *handler.TimelineHandler
	Document  *handler.DocumentHandler
	Cron      *handler.CronHandler
	System    *handler.SystemHandler
}

// Guards are the middleware that protect the route groups. Any of them may
// be nil, in which case the group is mounted without it.
type Guards struct {
	// Auth resolves the bearer token into an actor
	Auth gin.HandlerFunc
	// Admin rejects signed-in callers that are not company admins
	Admin gin.HandlerFunc
	// Cron checks the shared cron secret
	Cron gin.HandlerFunc
	// Credentials rate limits the sign-in endpoints
	Credentials gin.HandlerFunc
}

// RegisterProbes mounts the liveness and readiness endpoints at the root
func RegisterProbes(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)
}

// Groups returns every API route group wired to its handlers and guards
func (h Handlers) Groups(g Guards) []RouteRegistrar {
	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	credentials := NewDomainGroup("auth", "/auth").Use(g.Credentials)
	credentials.POST("/signup", h.Auth.Signup)
	credentials.POST("/login", h.Auth.Login)
	credentials.POST("/magic-login", h.Auth.MagicLogin)
	credentials.POST("/refresh", h.Auth.Refresh)

	session := NewDomainGroup("session", "/auth").Use(g.Auth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)

	cron := NewDomainGroup("cron", "/cron").Use(g.Cron)
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		cron.Handle(method, "/recurring", h.Cron.Recurring)
		cron.Handle(method, "/task-reminders", h.Cron.TaskReminders)
	}

	clients := NewDomainGroup("clients", "/clients").Use(g.Auth, g.Admin)
	clients.POST("", h.Client.Create)
	clients.GET("", h.Client.List)
	clients.GET("/:id", h.Client.Get)
	clients.POST("/:id/magic-link", h.Client.MagicLink)

	return []RouteRegistrar{
		system,
		credentials,
		session,
		cron,
		clients,
		h.ledgerGroup(g),
		h.workforceGroup(g),
		h.projectGroup(g),
	}
}

func (h Handlers) ledgerGroup(g Guards) *DomainGroup {
	ledger := NewDomainGroup("ledger", "").Use(g.Auth)

	accounts := ledger.Group("accounts", "/accounts")
	accounts.POST("", h.Account.Create)
	accounts.GET("", h.Account.List)
	accounts.GET("/:id", h.Account.Get)
	accounts.PUT("/:id", h.Account.Update)
	accounts.DELETE("/:id", h.Account.Delete)

	categories := ledger.Group("categories", "/categories")
	categories.POST("", h.Category.Create)
	categories.GET("", h.Category.List)
	categories.POST("/seed", h.Category.Seed)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	tags := ledger.Group("tags", "/tags")
	tags.POST("", h.Tag.Create)
	tags.GET("", h.Tag.List)
	tags.PUT("/:id", h.Tag.Rename)
	tags.DELETE("/:id", h.Tag.Delete)

	expenditures := ledger.Group("expenditures", "/expenditures")
	expenditures.POST("", h.Entry.CreateExpenditure)
	expenditures.GET("", h.Entry.ListExpenditures)
	expenditures.GET("/:id", h.Entry.GetExpenditure)
	expenditures.DELETE("/:id", h.Entry.DeleteExpenditure)

	incomes := ledger.Group("incomes", "/incomes")
	incomes.POST("", h.Entry.CreateIncome)
	incomes.GET("", h.Entry.ListIncomes)
	incomes.GET("/:id", h.Entry.GetIncome)
	incomes.DELETE("/:id", h.Entry.DeleteIncome)

	recurring := ledger.Group("recurring", "/recurring")
	recurring.POST("", h.Recurring.Create)
	recurring.GET("", h.Recurring.List)
	recurring.POST("/process", h.Recurring.Process)
	recurring.GET("/:id", h.Recurring.Get)
	recurring.PUT("/:id", h.Recurring.Update)
	recurring.POST("/:id/toggle", h.Recurring.Toggle)
	recurring.DELETE("/:id", h.Recurring.Delete)

	reports := ledger.Group("reports", "/reports")
	reports.GET("/employee-payments", h.Report.EmployeePayments)
	reports.GET("/category-breakdown", h.Report.CategoryBreakdown)
	reports.GET("/summary", h.Report.Summary)
	reports.POST("/export", h.Report.Export)

	return ledger
}

func (h Handlers) workforceGroup(g Guards) *DomainGroup {
	employees := NewDomainGroup("employees", "/employees").Use(g.Auth)
	employees.POST("", h.Employee.Create)
	employees.GET("", h.Employee.List)
	employees.GET("/:id", h.Employee.Get)
	employees.PUT("/:id", h.Employee.Update)
	employees.DELETE("/:id", h.Employee.Delete)
	return employees
}

func (h Handlers) projectGroup(g Guards) *DomainGroup {
	work := NewDomainGroup("projects", "").Use(g.Auth)

	projects := work.Group("projects", "/projects")
	projects.POST("", h.Project.Create)
	projects.GET("", h.Project.List)
	projects.GET("/:id", h.Project.Get)
	projects.PUT("/:id", h.Project.Update)
	projects.DELETE("/:id", h.Project.Delete)
	projects.GET("/:id/team", h.Project.ListMembers)
	projects.POST("/:id/team", h.Project.AssignMember)
	projects.DELETE("/:id/team/:employeeId", h.Project.RemoveMember)
	projects.GET("/:id/modules", h.Project.ListModules)
	projects.POST("/:id/modules", h.Project.CreateModule)
	projects.GET("/:id/timeline", h.Timeline.Timeline)
	projects.POST("/:id/logs", h.Timeline.CreateLog)
	projects.GET("/:id/documents", h.Document.List)
	projects.POST("/:id/documents", h.Document.Link)
	projects.POST("/:id/documents/upload", h.Document.Upload)

	modules := work.Group("modules", "/modules")
	modules.DELETE("/:id", h.Project.DeleteModule)

	tasks := work.Group("tasks", "/tasks")
	tasks.POST("", h.Task.Create)
	tasks.GET("", h.Task.List)
	tasks.GET("/:id", h.Task.Get)
	tasks.PUT("/:id", h.Task.Update)
	tasks.DELETE("/:id", h.Task.Delete)
	tasks.PATCH("/:id/status", h.Task.UpdateStatus)
	tasks.PATCH("/:id/visibility", h.Task.SetVisibility)
	tasks.POST("/:id/assignees/:employeeId", h.Task.Assign)
	tasks.DELETE("/:id/assignees/:employeeId", h.Task.Unassign)
	tasks.POST("/:id/approve", h.Task.Approve)
	tasks.POST("/:id/reject", h.Task.Reject)
	tasks.POST("/:id/request-changes", h.Task.RequestChanges)

	logs := work.Group("logs", "/logs")
	logs.PUT("/:id", h.Timeline.UpdateLog)
	logs.DELETE("/:id", h.Timeline.DeleteLog)

	documents := work.Group("documents", "/documents")
	documents.GET("/:id", h.Document.Download)
	documents.DELETE("/:id", h.Document.Delete)

	return work
}
