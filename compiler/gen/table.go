package gen

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"

	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

const schemaFile = "schema.sql"

// Table maps the stored elements and indexes of o to a table. The table is
// named after the plural of the object, the ID element becomes the primary
// key and references are stored as nullable ids.
func Table(o *design.Object) *schema.Table {
	t := schema.NewTable(design.Plural(o.Name()))
	columns := make(map[*design.StoredElement]*schema.Column)
	for _, e := range o.Elements() {
		c := column(e)
		columns[e] = c
		t.AddColumns(c)
	}
	var pk *schema.Column
	if id, ok := o.Element("ID"); ok && id.Content().Kind() == argument.KindObjectID {
		pk = columns[id]
		t.SetPrimaryKey(schema.NewPrimaryKey(pk))
	}
	for _, i := range o.Indexes() {
		elements := i.Elements()
		if pk != nil && len(elements) == 1 && columns[elements[0]] == pk {
			continue
		}
		idx := schema.NewIndex(t.Name + "_" + strings.ToLower(i.Name())).SetUnique(i.Unique())
		for _, e := range elements {
			idx.AddColumns(columns[e])
		}
		t.AddIndexes(idx)
	}
	return t
}

func column(e *design.StoredElement) *schema.Column {
	name := strings.ToLower(e.Name())
	return argument.Match[*schema.Column](e.Content(), columnType{name: name})
}

// columnType maps argument variants to Postgres columns.
type columnType struct{ name string }

func (c columnType) Text(a *argument.Text) *schema.Column {
	return schema.NewStringColumn(c.name, "varchar", schema.StringSize(a.MaxLength()))
}

func (c columnType) Integer(*argument.Integer) *schema.Column {
	return schema.NewIntColumn(c.name, "bigint")
}

func (c columnType) Reference(*argument.Reference) *schema.Column {
	return schema.NewIntColumn(c.name, "bigint").SetNull(true)
}

func (c columnType) ObjectID(*argument.ObjectID) *schema.Column {
	return schema.NewIntColumn(c.name, "bigint")
}

func (c columnType) Array(*argument.Array) *schema.Column {
	return schema.NewJSONColumn(c.name, "jsonb")
}

func (c columnType) FaultyText(a *argument.FaultyText) *schema.Column {
	return schema.NewStringColumn(c.name, "varchar", schema.StringSize(a.MaxLength()))
}

// DDL returns the statements creating the tables of the objects of m that
// store elements.
func DDL(ctx context.Context, m *design.Module) ([]byte, error) {
	var changes []schema.Change
	for _, o := range m.Objects() {
		if len(o.Elements()) == 0 {
			continue
		}
		changes = append(changes, &schema.AddTable{T: Table(o)})
	}
	var buf bytes.Buffer
	if len(changes) == 0 {
		return buf.Bytes(), nil
	}
	plan, err := postgres.DefaultPlan.PlanChanges(ctx, m.Name(), changes)
	if err != nil {
		return nil, fmt.Errorf("plan tables of module %s: %w", m.Name(), err)
	}
	for _, c := range plan.Changes {
		if c.Comment != "" {
			fmt.Fprintf(&buf, "-- %s\n", c.Comment)
		}
		fmt.Fprintf(&buf, "%s;\n", c.Cmd)
	}
	return buf.Bytes(), nil
}
