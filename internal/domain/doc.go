// Package domain contains the core business entities for the study planner:
// goals, topics, study sessions, and daily plans, all rooted in a per-user
// UserState aggregate. Entities carry their own validation; scheduling and
// urgency computations live in the sched subpackage.
package domain
