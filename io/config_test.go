package io

import (
	"os"
	"path"
	"testing"

	"gopkg.in/gcfg.v1"
)

func writeConfig(t *testing.T, text string) string {
	fname := path.Join(t.TempDir(), "gomd.config")
	if err := os.WriteFile(fname, []byte(text), 0644); err != nil {
		t.Fatal(err.Error())
	}
	return fname
}

func TestExampleConfigFileIsValid(t *testing.T) {
	con := DefaultConfig()
	if err := gcfg.ReadStringInto(con, ExampleConfigFile); err != nil {
		t.Fatal(err.Error())
	}

	if con.CellList.NominalWidth != 2.5 {
		t.Errorf("NominalWidth = %g, expected 2.5.", con.CellList.NominalWidth)
	}
	if con.Box.Width != 100 {
		t.Errorf("Width = %g, expected 100.", con.Box.Width)
	}
	if con.Particles.Count != 10000 {
		t.Errorf("Count = %d, expected 10000.", con.Particles.Count)
	}
	if con.Run.Steps != 100 {
		t.Errorf("Steps = %d, expected 100.", con.Run.Steps)
	}
}

func TestReadConfig(t *testing.T) {
	fname := writeConfig(t, `[CellList]
NominalWidth = 2
Workers = 4

[Box]
Width = 50
Dimensions = 2

[Particles]
Count = 100
Seed = 42

[Run]
Steps = 10
StepSize = 0.25`)

	con, err := ReadConfig(fname)
	if err != nil {
		t.Fatal(err.Error())
	}

	if con.CellList.NominalWidth != 2 || con.CellList.Workers != 4 {
		t.Errorf("[CellList] read back as %+v.", con.CellList)
	}
	if con.CellList.Radius != 1 {
		t.Errorf("Radius default = %d, expected 1.", con.CellList.Radius)
	}
	if con.Box.Width != 50 || con.Box.Dimensions != 2 {
		t.Errorf("[Box] read back as %+v.", con.Box)
	}
	if con.Particles.Count != 100 || con.Particles.Seed != 42 {
		t.Errorf("[Particles] read back as %+v.", con.Particles)
	}
	if con.Run.Steps != 10 || con.Run.StepSize != 0.25 {
		t.Errorf("[Run] read back as %+v.", con.Run)
	}
}

func TestReadConfigErrors(t *testing.T) {
	table := []struct {
		name, text string
	}{
		{"missing NominalWidth", `[CellList]
Radius = 1
[Box]
Width = 50
[Particles]
Count = 100
[Run]
Steps = 10`},
		{"negative NominalWidth", `[CellList]
NominalWidth = -1
[Box]
Width = 50
[Particles]
Count = 100
[Run]
Steps = 10`},
		{"bad Dimensions", `[CellList]
NominalWidth = 2
[Box]
Width = 50
Dimensions = 4
[Particles]
Count = 100
[Run]
Steps = 10`},
		{"no particle source", `[CellList]
NominalWidth = 2
[Box]
Width = 50
[Particles]
Seed = 42
[Run]
Steps = 10`},
		{"two particle sources", `[CellList]
NominalWidth = 2
[Box]
Width = 50
[Particles]
Count = 100
File = particles.txt
[Run]
Steps = 10`},
		{"missing Steps", `[CellList]
NominalWidth = 2
[Box]
Width = 50
[Particles]
Count = 100
[Run]
StepSize = 0.1`},
	}

	for i, test := range table {
		fname := writeConfig(t, test.text)
		if _, err := ReadConfig(fname); err == nil {
			t.Errorf("%d) ReadConfig accepted a config with %s.", i, test.name)
		}
	}
}
