// Package models contains the GORM persistence models behind the repositories.
// Domain types carry no ORM tags; each model converts to and from its domain
// type with ToDomain and FromDomain.
//
//   - base.go: shared id, timestamp, version and tenant columns
//   - identity.go: companies and users
//   - ledger.go: accounts, categories, tags, expenditures, incomes and tag links
//   - recurrence.go: recurring transaction templates
//   - workforce.go: employees
//   - project.go: projects, members, modules, tasks, assignees, daily logs, documents
package models
