package exporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"residents-admin-table/internal/domain"
	"residents-admin-table/internal/ports"
)

// htmlEscaper экранирует подмножество HTML, которое понимает Telegram.
// strings.Replacer проходит по строке один раз, поэтому уже экранированный
// амперсанд не экранируется повторно.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// HTMLExporter реализует интерфейс ReportExporter: рендерит отчет
// в виде легкой HTML-разметки, пригодной для отправки в Telegram-канал.
type HTMLExporter struct {
	w io.Writer
}

// NewHTMLExporter создает новый экземпляр HTMLExporter поверх выходного потока.
func NewHTMLExporter(w io.Writer) ports.ReportExporter {
	return &HTMLExporter{w: w}
}

// section — одна секция отчета с заголовком и строками в порядке вывода.
type section struct {
	title string
	rows  []domain.ReportRow
}

// Export рендерит отчет: секции Residents/Bots/Non-residents, легенду
// и предупреждение о чатах, которые не удалось обойти.
func (e *HTMLExporter) Export(report *domain.Report) error {
	var b strings.Builder

	first := true
	for _, sec := range partition(report.Rows) {
		if len(sec.rows) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		e.writeSection(&b, sec, len(report.Columns))
	}

	b.WriteString("\n<b>Legend</b>\n")
	e.writeLegend(&b, report.Columns)

	b.WriteString("👑 — owner, ⭐ — admin, 👤 — participant/subscriber\n")
	b.WriteString("➖ — not present (or not admin for public chats)\n")

	if len(report.FailedIDs) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ got errors while fetching chats with ids %s\n", formatIDList(report.FailedIDs)))
	}

	if _, err := io.WriteString(e.w, b.String()); err != nil {
		return fmt.Errorf("failed to write the report: %w", err)
	}
	return nil
}

// partition раскладывает строки по секциям. Резиденты сохраняют порядок
// реестра, боты и нерезиденты упорядочиваются по id.
func partition(rows []domain.ReportRow) []section {
	sections := []section{
		{title: "Residents"},
		{title: "Bots"},
		{title: "Non-residents"},
	}

	for _, row := range rows {
		switch {
		case row.IsResident:
			sections[0].rows = append(sections[0].rows, row)
		case row.Person != nil && row.Person.IsBot:
			sections[1].rows = append(sections[1].rows, row)
		default:
			sections[2].rows = append(sections[2].rows, row)
		}
	}

	for i := 1; i < len(sections); i++ {
		rows := sections[i].rows
		sort.Slice(rows, func(a, b int) bool { return rows[a].PersonID < rows[b].PersonID })
	}

	return sections
}

// writeSection выводит заголовок секции и все ее строки.
func (e *HTMLExporter) writeSection(b *strings.Builder, sec section, columns int) {
	header := make([]string, columns)
	for i := range header {
		header[i] = digitKeycap(i)
	}
	b.WriteString(formatRow(header))
	b.WriteString(fmt.Sprintf(" <b>%s</b>\n", sec.title))

	for _, row := range sec.rows {
		glyphs := make([]string, len(row.Roles))
		for i, role := range row.Roles {
			glyphs[i] = role.Glyph()
		}
		b.WriteString(formatRow(glyphs))
		b.WriteString(" ")
		e.writeIdentity(b, row)
		b.WriteString("\n")
	}
}

// writeIdentity выводит имя человека со ссылкой на его профиль,
// либо голый id, если профиль не наблюдался ни в одном чате.
func (e *HTMLExporter) writeIdentity(b *strings.Builder, row domain.ReportRow) {
	if row.Person == nil {
		b.WriteString(fmt.Sprintf("id=%d", row.PersonID))
		return
	}

	p := row.Person
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}

	if p.Username != "" {
		b.WriteString(fmt.Sprintf(`<a href="https://t.me/%s">`, p.Username))
	}
	if name != "" {
		b.WriteString(htmlEscaper.Replace(name))
	} else {
		// Профиль наблюдался, но имя пустое (например, удаленный аккаунт).
		b.WriteString(fmt.Sprintf("id=%d", p.ID))
	}
	if p.Username != "" {
		b.WriteString("</a>")
	}
	if p.IsBot {
		b.WriteString(" 🤖")
	}
}

// writeLegend выводит по строке на колонку: маркер позиции колонки,
// ссылку на чат и его название.
func (e *HTMLExporter) writeLegend(b *strings.Builder, columns []domain.ChatColumn) {
	for n, col := range columns {
		marker := make([]string, len(columns))
		for ni := range marker {
			switch {
			case ni < n:
				marker[ni] = "〰️"
			case ni == n:
				marker[ni] = digitKeycap(n)
			default:
				marker[ni] = ""
			}
		}
		b.WriteString(strings.TrimRight(formatRow(marker), " "))

		b.WriteString(` — <a href="https://t.me/`)
		switch {
		case col.Identity != nil && col.Identity.Username != "":
			b.WriteString(col.Identity.Username)
		case col.Identity != nil:
			b.WriteString(fmt.Sprintf("c/%d", col.Identity.ID))
		default:
			// Чат не удалось обойти, остается только сконфигурированный id.
			b.WriteString(fmt.Sprintf("c/%d", col.Chat.BareID()))
		}
		b.WriteString(`">`)

		if col.Identity != nil {
			b.WriteString(htmlEscaper.Replace(col.Identity.Title))
		} else {
			b.WriteString(fmt.Sprintf("id=%d", col.Chat.ID))
		}
		b.WriteString("</a>")

		if !col.Chat.Internal {
			b.WriteString(" (public)")
		}
		b.WriteString("\n")
	}
}

// formatRow склеивает глифы колонок, разделяя их двойным пробелом
// посередине для удобства чтения при большом числе чатов.
func formatRow(items []string) string {
	middle := len(items) / 2
	return strings.Join(items[:middle], "") + "  " + strings.Join(items[middle:], "")
}

// digitKeycap возвращает эмодзи-цифру в рамке для индекса колонки.
func digitKeycap(n int) string {
	return fmt.Sprintf("%d️⃣", n)
}

// formatIDList форматирует список id в стиле [1, 2, 3].
func formatIDList(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
