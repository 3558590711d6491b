// Package http provides HTTP handlers and middleware for the planner API.
//
// The router exposes the following endpoints:
//   - GET /planner?from=&to=&employee_id=: the derived planner window with
//     allocations, vacations, conflicts and per-employee utilization.
//   - POST /allocations, PUT /allocations/{id}, DELETE /allocations/{id}:
//     allocation management exchanging the `allocationDTO` payload defined in
//     allocation_handler.go. Updates accept an `edit_date` to scope a change
//     to one day of a multi-day allocation; deletions accept `date` and
//     `redistribute` query parameters.
//   - POST /allocations/bulk-move: shifts a selection of allocations by a
//     shared day delta, atomically.
//   - GET /projects/{id}/timeline?from=&to=&granularity=: the column grid
//     plus the project's activities, milestones and allocations.
//   - GET /projects/{id}/burndown: the weekly planned-versus-actual series
//     for a budgeted project.
//   - POST /activities, PUT /activities/{id}, DELETE /activities/{id} and
//     GET /projects/{id}/activities: activity management.
//   - POST /milestones, PUT /milestones/{id}, DELETE /milestones/{id} and
//     GET /projects/{id}/milestones: milestone management.
//   - GET /employees, GET /projects, GET /phases: directory listings.
//   - GET /healthz: liveness and storage reachability.
//   - GET /metrics: Prometheus instruments.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth. A persistence commit that fails
// after the optimistic local mutation surfaces as 502 with the locally
// applied state echoed back under `applied`.
package http
