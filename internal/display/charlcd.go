package display

import (
	"fmt"
	"os"
)

// CharLCD drives a panel exposed by the Linux auxdisplay charlcd driver,
// normally /dev/lcd. The node accepts plain text plus the driver's escape
// sequences, so no userspace I2C driver is needed.
type CharLCD struct {
	Path string
}

const (
	lcdClear  = "\f"
	lcdGotoXY = "\x1b[Lx%dy%d;"
)

func (l *CharLCD) Clear() error {
	return l.write(lcdClear)
}

func (l *CharLCD) WriteLine(row int, text string) error {
	return l.write(fmt.Sprintf(lcdGotoXY, 0, row) + text)
}

func (l *CharLCD) write(s string) error {
	f, err := os.OpenFile(l.Path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open lcd: %w", err)
	}
	if _, err := f.WriteString(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("write lcd: %w", err)
	}
	return f.Close()
}
