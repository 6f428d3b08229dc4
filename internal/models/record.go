package models

// Record is implemented by every collection member; the id is the primary key
// within its collection.
type Record interface {
	GetID() string
}

func (g Goal) GetID() string          { return g.ID }
func (t Task) GetID() string          { return t.ID }
func (n Note) GetID() string          { return n.ID }
func (e CalendarEvent) GetID() string { return e.ID }
func (r Reminder) GetID() string      { return r.ID }
func (h Habit) GetID() string         { return h.ID }
func (e HabitEntry) GetID() string    { return e.ID }
func (e JournalEntry) GetID() string  { return e.ID }
func (t Transaction) GetID() string   { return t.ID }
func (b Budget) GetID() string        { return b.ID }
func (l FinanceLog) GetID() string    { return l.ID }
