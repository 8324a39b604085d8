package repository

import (
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var arrayElementEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// whereArrayOverlaps keeps rows whose text[] column shares at least one value
// with values. Postgres uses the && operator; other dialects match the quoted
// element inside the stored "{...}" literal.
func whereArrayOverlaps(db *gorm.DB, column string, values []string) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Where(column+" && ?", pq.Array(values))
	}

	clauses := make([]string, 0, len(values))
	args := make([]interface{}, 0, len(values))
	for _, v := range values {
		clauses = append(clauses, column+" LIKE ?")
		args = append(args, `%"`+arrayElementEscaper.Replace(v)+`"%`)
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}
