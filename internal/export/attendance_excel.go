package export

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// BuildAttendanceRecap — сводка посещаемости за период: лист с записями и
// лист с итогами по ученикам.
func BuildAttendanceRecap(ctx context.Context, database *sql.DB, from, to time.Time) (*excelize.File, error) {
	rows, err := database.QueryContext(ctx, `
SELECT a.date, u.full_name, s.class_name, a.status, COALESCE(a.check_in_time, ''), COALESCE(a.note, '')
FROM attendance a
JOIN students s ON s.id = a.student_id
JOIN users u ON u.id = s.user_id
WHERE a.date BETWEEN $1 AND $2
ORDER BY a.date, s.class_name, u.full_name`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("recap query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type total struct {
		name, class                         string
		present, late, absent, sick, permit int
	}
	var recs [][]string
	totals := map[string]*total{}
	var order []string

	for rows.Next() {
		var date time.Time
		var name, class, status, checkIn, note string
		if err := rows.Scan(&date, &name, &class, &status, &checkIn, &note); err != nil {
			return nil, err
		}
		recs = append(recs, []string{date.Format("2006-01-02"), name, class, status, checkIn, note})

		key := class + "|" + name
		t, ok := totals[key]
		if !ok {
			t = &total{name: name, class: class}
			totals[key] = t
			order = append(order, key)
		}
		switch status {
		case "present":
			t.present++
		case "late":
			t.late++
		case "absent":
			t.absent++
		case "sick":
			t.sick++
		case "permit":
			t.permit++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var sum [][]string
	for _, key := range order {
		t := totals[key]
		sum = append(sum, []string{
			t.name, t.class,
			fmt.Sprint(t.present), fmt.Sprint(t.late), fmt.Sprint(t.absent),
			fmt.Sprint(t.sick), fmt.Sprint(t.permit),
		})
	}

	return NewWorkbook([]SheetSpec{
		{
			Title:  "Записи",
			Header: []string{"Дата", "Ученик", "Класс", "Статус", "Время отметки", "Примечание"},
			Rows:   recs,
		},
		{
			Title:  "Итоги",
			Header: []string{"Ученик", "Класс", "Присутствовал", "Опоздал", "Отсутствовал", "Болел", "По заявлению"},
			Rows:   sum,
		},
	})
}
