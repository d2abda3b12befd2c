// Package dblib wires the "db" native module: a single
// database/sql-backed connection handle addressable from script, spanning
// every SQL driver the retrieval pack pulls in — github.com/mattn/go-
// sqlite3 and modernc.org/sqlite for SQLite, github.com/lib/pq for
// Postgres, github.com/go-sql-driver/mysql for MySQL, and
// github.com/denisenkom/go-mssqldb for SQL Server — selected by the driver
// name passed to open(). Each native checks its argument count/type up
// front and backs onto database/sql directly instead of a hand-rolled
// per-driver connection manager. The connection itself rides
// behind object.Userdata.Host, the same handle-object pattern File
// uses for os.File.
package dblib

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	mssql "github.com/denisenkom/go-mssqldb"

	"teascript/api"
	"teascript/object"
	"teascript/value"
)

var _ = mssql.Version // force-link go-mssqldb; it registers its driver via init()

// driverName maps a script-facing engine name to the database/sql driver
// registered under that name, letting open() offer both cgo-free
// (modernc.org/sqlite) and cgo (mattn/go-sqlite3) SQLite drivers.
func driverName(engine string) (string, bool) {
	switch engine {
	case "sqlite":
		return "sqlite", true // modernc.org/sqlite
	case "sqlite3":
		return "sqlite3", true // github.com/mattn/go-sqlite3
	case "postgres":
		return "postgres", true
	case "mysql":
		return "mysql", true
	case "mssql", "sqlserver":
		return "sqlserver", true
	default:
		return "", false
	}
}

func wrapHandle(rt object.Runtime, db *sql.DB) value.Value {
	u := rt.NewUserdata(0)
	u.Host = db
	return value.Object(u)
}

// conn recovers the *sql.DB stashed behind a userdata handle argument.
func conn(rt object.Runtime, i int) (*sql.DB, error) {
	if rt.ArgCount() <= i {
		return nil, rt.ThrowError("expected a database handle argument")
	}
	v := rt.Arg(i)
	if !v.Is(value.KindUserdata) {
		return nil, rt.ThrowError("expected a database handle")
	}
	u := v.AsObject().(*object.Userdata)
	db, ok := u.Host.(*sql.DB)
	if !ok || db == nil {
		return nil, rt.ThrowError("database handle is closed or invalid")
	}
	return db, nil
}

func Register(st *api.State) {
	m := st.NewModule("db")

	st.DefineNative(m, "open", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		if rt.ArgCount() != 2 || !rt.Arg(0).Is(value.KindString) || !rt.Arg(1).Is(value.KindString) {
			return value.Null, rt.ThrowError("open expects 2 string arguments: engine, dsn")
		}
		engine := rt.Arg(0).AsObject().(*object.String).Bytes
		dsn := rt.Arg(1).AsObject().(*object.String).Bytes
		driver, ok := driverName(engine)
		if !ok {
			return value.Null, rt.ThrowError("open: unknown database engine '%s'", engine)
		}
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return value.Null, rt.ThrowError("open: %v", err)
		}
		return wrapHandle(rt, db), nil
	})

	st.DefineNative(m, "close", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		db, err := conn(rt, 0)
		if err != nil {
			return value.Null, err
		}
		if err := db.Close(); err != nil {
			return value.Bool(false), nil
		}
		rt.Arg(0).AsObject().(*object.Userdata).Host = nil
		return value.Bool(true), nil
	})

	st.DefineNative(m, "exec", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		db, err := conn(rt, 0)
		if err != nil {
			return value.Null, err
		}
		if rt.ArgCount() < 2 || !rt.Arg(1).Is(value.KindString) {
			return value.Null, rt.ThrowError("exec expects a handle and a SQL string")
		}
		args, cerr := convertArgs(rt, 2)
		if cerr != nil {
			return value.Null, cerr
		}
		result, err := db.Exec(rt.Arg(1).AsObject().(*object.String).Bytes, args...)
		if err != nil {
			return value.Null, rt.ThrowError("exec: %v", err)
		}
		n, _ := result.RowsAffected()
		return value.Number(float64(n)), nil
	})

	st.DefineNative(m, "query", object.NativeFunction, func(rt object.Runtime) (value.Value, error) {
		db, err := conn(rt, 0)
		if err != nil {
			return value.Null, err
		}
		if rt.ArgCount() < 2 || !rt.Arg(1).Is(value.KindString) {
			return value.Null, rt.ThrowError("query expects a handle and a SQL string")
		}
		args, cerr := convertArgs(rt, 2)
		if cerr != nil {
			return value.Null, cerr
		}
		rows, err := db.Query(rt.Arg(1).AsObject().(*object.String).Bytes, args...)
		if err != nil {
			return value.Null, rt.ThrowError("query: %v", err)
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return value.Null, rt.ThrowError("query: %v", err)
		}

		out := rt.NewList()
		for rows.Next() {
			raw := make([]interface{}, len(cols))
			ptrs := make([]interface{}, len(cols))
			for i := range raw {
				ptrs[i] = &raw[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return value.Null, rt.ThrowError("query: %v", err)
			}
			out.Items = append(out.Items, rowToMap(rt, cols, raw))
		}
		if err := rows.Err(); err != nil {
			return value.Null, rt.ThrowError("query: %v", err)
		}
		return value.Object(out), nil
	})

	st.RegisterModule("db", m)
}

func rowToMap(rt object.Runtime, cols []string, raw []interface{}) value.Value {
	m := rt.NewMap()
	for i, col := range cols {
		rt.MapSet(m, value.Object(rt.NewString(col)), goValueToTea(rt, raw[i]))
	}
	return value.Object(m)
}

func goValueToTea(rt object.Runtime, v interface{}) value.Value {
	switch x := v.(type) {
	case nil:
		return value.Null
	case int64:
		return value.Number(float64(x))
	case float64:
		return value.Number(x)
	case bool:
		return value.Bool(x)
	case []byte:
		return value.Object(rt.NewString(string(x)))
	case string:
		return value.Object(rt.NewString(x))
	default:
		return value.Null
	}
}

func convertArgs(rt object.Runtime, from int) ([]interface{}, error) {
	args := make([]interface{}, 0, rt.ArgCount()-from)
	for i := from; i < rt.ArgCount(); i++ {
		v := rt.Arg(i)
		switch {
		case v.IsNull():
			args = append(args, nil)
		case v.IsBool():
			args = append(args, v.AsBool())
		case v.IsNumber():
			args = append(args, v.AsNumber())
		case v.Is(value.KindString):
			args = append(args, v.AsObject().(*object.String).Bytes)
		default:
			return nil, rt.ThrowError("unsupported query argument type")
		}
	}
	return args, nil
}
