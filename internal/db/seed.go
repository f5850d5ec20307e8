package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with a small demo plant: a roster,
// a holiday and a spread of open tasks around today.
func SeedFixtures(database *sql.DB, today time.Time) error {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}

	engineers := []struct{ id, name, role, skills, email string }{
		{"ENG-001", "Sam Okafor", "Engineer", "HVAC,Mechanical,Boiler Maintenance", "sam.okafor@example.com"},
		{"ENG-002", "Priya Shah", "Technician", "Electrical,Generator Maintenance,Fire Safety", "priya.shah@example.com"},
		{"ENG-003", "Alex Moreno", "Technician", "Plumbing,Water Treatment", "alex.moreno@example.com"},
		{"ENG-004", "Jo Lindqvist", "Manager", "Gas Safety,HVAC", "jo.lindqvist@example.com"},
		{"ENG-005", "Robin Clarke", "Viewer", "", "robin.clarke@example.com"},
	}
	for _, e := range engineers {
		if _, err := database.Exec(
			"INSERT INTO engineers (id, name, role, skills, email) VALUES (?, ?, ?, ?, ?)",
			e.id, e.name, e.role, e.skills, e.email,
		); err != nil {
			return fmt.Errorf("seed engineers: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO holidays (date, label) VALUES (?, ?)", day(14), "Site shutdown",
	); err != nil {
		return fmt.Errorf("seed holidays: %w", err)
	}

	if _, err := database.Exec(
		"INSERT INTO leave_requests (id, engineer_id, start_date, end_date, status, reason) VALUES (?, ?, ?, ?, 'approved', ?)",
		"LEAVE-001", "ENG-003", day(1), day(3), "Annual leave",
	); err != nil {
		return fmt.Errorf("seed leave: %w", err)
	}

	tasks := []struct {
		id, location, assetID, assetType, due, taskType, priority string
	}{
		{"TASK-001", "Plant Room A", "AST-101", "Gas Boiler", day(-3), "Planned Maintenance", "High"},
		{"TASK-002", "Plant Room A", "AST-102", "Circulating Pump", day(0), "Planned Maintenance", "Medium"},
		{"TASK-003", "Basement", "AST-201", "Standby Generator", day(2), "Inspection", "High"},
		{"TASK-004", "Roof", "AST-301", "Cold Water Tank", day(1), "Inspection", "Low"},
		{"TASK-005", "Level 2", "AST-401", "Fire Alarm Panel", day(5), "Planned Maintenance", "Medium"},
		{"TASK-006", "Reception", "", "", day(-10), "Reactive", "Low"},
	}
	for _, t := range tasks {
		if _, err := database.Exec(
			"INSERT INTO tasks (id, location, asset_id, asset_type, due_date, type, status, priority) VALUES (?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, 'Open', ?)",
			t.id, t.location, t.assetID, t.assetType, t.due, t.taskType, t.priority,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	return nil
}
