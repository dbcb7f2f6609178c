package database

import "github.com/sirupsen/logrus"

// Progress receives the advancement of a migration
type Progress interface {
	Init(total int)
	Update(index int)
	Close()
}

// NopProgress discards progress reports
type NopProgress struct{}

func (NopProgress) Init(int)   {}
func (NopProgress) Update(int) {}
func (NopProgress) Close()     {}

// LogProgress reports migration progress through a logger
type LogProgress struct {
	Log   logrus.FieldLogger
	total int
}

func (p *LogProgress) Init(total int) {
	p.total = total
	p.Log.Infof("Migrating %d rows", total)
}

func (p *LogProgress) Update(index int) {
	p.Log.Debugf("Migrated row %d/%d", index, p.total)
}

func (p *LogProgress) Close() {
	p.Log.Info("Migration completed")
}
