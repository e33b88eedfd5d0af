package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/bizledger/backend/internal/application/notification"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rendered is a message ready to be sent
type Rendered struct {
	Subject string
	HTML    string
}

// TemplateEngine renders notification messages into HTML emails
type TemplateEngine struct {
	appURL string
	bodies map[notification.Kind]*template.Template
}

// templateData is what every body template sees
type templateData struct {
	AppURL string
	Data   any
}

// NewTemplateEngine parses every body template. appURL is the base of links
// placed in emails.
func NewTemplateEngine(appURL string) (*TemplateEngine, error) {
	e := &TemplateEngine{
		appURL: strings.TrimRight(appURL, "/"),
		bodies: make(map[notification.Kind]*template.Template, len(bodyTemplates)),
	}
	funcs := template.FuncMap{
		"label": label,
		"money": formatMoney,
		"date":  formatDate,
		"stamp": formatDateTime,
	}

	layout, err := template.New("layout").Funcs(funcs).Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	for kind, body := range bodyTemplates {
		t, err := template.Must(layout.Clone()).New("body").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		e.bodies[kind] = t
	}
	return e, nil
}

// Render builds the subject and HTML body of msg
func (e *TemplateEngine) Render(msg notification.Message) (Rendered, error) {
	t, ok := e.bodies[msg.Kind]
	if !ok {
		return Rendered{}, fmt.Errorf("no template for %q", msg.Kind)
	}
	subject, err := e.subject(msg)
	if err != nil {
		return Rendered{}, err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", templateData{AppURL: e.appURL, Data: msg.Data}); err != nil {
		return Rendered{}, fmt.Errorf("render %s: %w", msg.Kind, err)
	}
	return Rendered{Subject: subject, HTML: buf.String()}, nil
}

func (e *TemplateEngine) subject(msg notification.Message) (string, error) {
	switch d := msg.Data.(type) {
	case notification.TaskAssignedData:
		return "New Task Assigned: " + d.TaskTitle, nil
	case notification.TaskCompletedData:
		return "Task Completed: " + d.TaskTitle, nil
	case notification.DeadlineReminderData:
		switch {
		case d.Overdue:
			return "Overdue: " + d.TaskTitle, nil
		case d.DaysUntilDue == 0:
			return "Due Today: " + d.TaskTitle, nil
		case d.DaysUntilDue == 1:
			return "Due Tomorrow: " + d.TaskTitle, nil
		default:
			return fmt.Sprintf("Due in %d days: %s", d.DaysUntilDue, d.TaskTitle), nil
		}
	case notification.ApprovalRequestData:
		return "Approval Needed: " + d.TaskTitle, nil
	case notification.ApprovalDecisionData:
		if d.Approved {
			return "Approved: " + d.TaskTitle, nil
		}
		return "Changes Requested: " + d.TaskTitle, nil
	case notification.ClientWelcomeData:
		return "Welcome to " + d.CompanyName + " Client Portal", nil
	case notification.MagicLinkData:
		return "Your Client Portal Access Link", nil
	case notification.RecurringProcessedData:
		kind := "Transaction"
		if d.Income {
			kind = "Payment"
		}
		return fmt.Sprintf("Recurring %s Processed: %s", kind, formatMoney(d.Amount)), nil
	default:
		return "", fmt.Errorf("unexpected data %T for %q", msg.Data, msg.Kind)
	}
}

// label turns an enum value such as BIWEEKLY or IN_REVIEW into "Biweekly" or "In Review"
func label(v any) string {
	s := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	return cases.Title(language.English).String(strings.ToLower(s))
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006 15:04 MST")
}

const layoutTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.card { background: #f5f5f5; border-radius: 6px; padding: 15px; margin: 15px 0; }
.label { font-weight: bold; color: #555; }
.button { display: inline-block; padding: 10px 20px; background: #2563eb; color: #fff; text-decoration: none; border-radius: 4px; }
.footer { font-size: 12px; color: #888; margin-top: 30px; }
</style>
</head>
<body>
<div class="container">
{{template "body" .}}
<p class="footer">This is an automated message from BizLedger.</p>
</div>
</body>
</html>`

var bodyTemplates = map[notification.Kind]string{
	notification.KindTaskAssigned: `{{with .Data}}<h2>New Task Assigned</h2>
<p>Hi {{.EmployeeName}},</p>
<p>You have been assigned a new task:</p>
<div class="card">
<h3>{{.TaskTitle}}</h3>
<p><span class="label">Project:</span> {{.ProjectName}}</p>
{{if .TaskDescription}}<p><span class="label">Description:</span> {{.TaskDescription}}</p>{{end}}
{{if .DueDate}}<p><span class="label">Due Date:</span> {{date .DueDate}}</p>{{end}}
</div>{{end}}
<p><a class="button" href="{{.AppURL}}/dashboard/tasks">View tasks</a></p>`,

	notification.KindTaskCompleted: `{{with .Data}}<h2>Task Completed</h2>
<p>The following task has been marked as completed:</p>
<div class="card">
<h3>{{.TaskTitle}}</h3>
<p><span class="label">Project:</span> {{.ProjectName}}</p>
<p><span class="label">Completed by:</span> {{.EmployeeName}}</p>
<p><span class="label">Completed at:</span> {{stamp .CompletedAt}}</p>
</div>{{end}}
<p><a class="button" href="{{.AppURL}}/dashboard/tasks">Review task</a></p>`,

	notification.KindDeadlineReminder: `{{with .Data}}<h2>{{if .Overdue}}Task Overdue{{else}}Task Deadline Reminder{{end}}</h2>
<p>Hi {{.EmployeeName}},</p>
<p>{{if .Overdue}}This task is past its deadline.{{else if eq .DaysUntilDue 0}}This task is due today.{{else if eq .DaysUntilDue 1}}This task is due tomorrow.{{else}}This task is due in {{.DaysUntilDue}} days.{{end}}</p>
<div class="card">
<h3>{{.TaskTitle}}</h3>
<p><span class="label">Project:</span> {{.ProjectName}}</p>
{{if .TaskDescription}}<p><span class="label">Description:</span> {{.TaskDescription}}</p>{{end}}
<p><span class="label">Due Date:</span> {{stamp .DueDate}}</p>
</div>
<p>{{if .Overdue}}Please update the status or report progress.{{else}}Please make sure the task is completed on time.{{end}}</p>{{end}}
<p><a class="button" href="{{.AppURL}}/dashboard/tasks/{{.Data.TaskID}}">Open task</a></p>`,

	notification.KindApprovalRequest: `{{with .Data}}<h2>Task Pending Approval</h2>
<p>Hi {{.ApproverName}},</p>
<p>A task is ready for your review:</p>
<div class="card">
<h3>{{.TaskTitle}}</h3>
<p><span class="label">Project:</span> {{.ProjectName}}</p>
{{if .TaskDescription}}<p><span class="label">Description:</span> {{.TaskDescription}}</p>{{end}}
<p><span class="label">Submitted by:</span> {{.EmployeeName}}</p>
<p><span class="label">Submitted at:</span> {{stamp .SubmittedAt}}</p>
</div>{{end}}
<p><a class="button" href="{{.AppURL}}/dashboard/tasks/{{.Data.TaskID}}">Review task</a></p>`,

	notification.KindApprovalDecision: `{{with .Data}}<h2>{{if .Approved}}Task Approved{{else}}Task Needs Revision{{end}}</h2>
<p>Hi {{.EmployeeName}},</p>
<div class="card">
<h3>{{.TaskTitle}}</h3>
<p><span class="label">Project:</span> {{.ProjectName}}</p>
<p><span class="label">Reviewed by:</span> {{.ApproverName}}</p>
{{if .Feedback}}<p><span class="label">Feedback:</span> {{.Feedback}}</p>{{end}}
</div>
<p>{{if .Approved}}Great work, the task has been approved.{{else}}Please address the feedback and resubmit the task for review.{{end}}</p>{{end}}`,

	notification.KindClientWelcome: `{{with .Data}}<h2>Welcome to the Client Portal</h2>
<p>Hi {{.ClientName}},</p>
<p>Welcome to <strong>{{.CompanyName}}</strong>'s client portal.</p>
{{if .ProjectName}}<div class="card"><p><span class="label">Project:</span> {{.ProjectName}}</p></div>{{end}}
<p>From the portal you can follow project progress and review shared documents.</p>
<p><a class="button" href="{{.MagicLink}}">Open the portal</a></p>
<p>This link expires in 24 hours.</p>{{end}}`,

	notification.KindMagicLink: `{{with .Data}}<h2>Your Portal Access Link</h2>
<p>Hi {{.ClientName}},</p>
<p>Here is your secure link to the client portal:</p>
<p><a class="button" href="{{.MagicLink}}">Open the portal</a></p>
<p>This link expires in 24 hours. If you did not request it, you can ignore this email.</p>{{end}}`,

	notification.KindRecurringProcessed: `{{with .Data}}<h2>Recurring Transaction Processed</h2>
<p>Hi {{.RecipientName}},</p>
<p>A recurring transaction has been recorded:</p>
<div class="card">
<h3>{{.TransactionName}}</h3>
<p><span class="label">Amount:</span> {{money .Amount}}</p>
<p><span class="label">Type:</span> {{if .Income}}Income{{else}}Expense{{end}}</p>
<p><span class="label">Frequency:</span> {{label .Frequency}}</p>
<p><span class="label">Next Scheduled:</span> {{date .NextRun}}</p>
</div>{{end}}`,
}
