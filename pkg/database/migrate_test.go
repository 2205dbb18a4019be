package database

import (
	"strings"
	"testing"
)

func TestMigrationStems_PairsComplete(t *testing.T) {
	stems, err := migrationStems()
	if err != nil {
		t.Fatalf("内嵌迁移应成对完整: %v", err)
	}
	if len(stems) == 0 {
		t.Fatal("至少应内嵌一个迁移")
	}
	for i, stem := range stems {
		if strings.ContainsAny(stem, "/\\") {
			t.Errorf("迁移主干不应含路径分隔符: %s", stem)
		}
		if i > 0 && stems[i-1] >= stem {
			t.Errorf("迁移主干应按版本号升序: %s >= %s", stems[i-1], stem)
		}
	}
}

func TestMigrationStems_InitPresent(t *testing.T) {
	stems, err := migrationStems()
	if err != nil {
		t.Fatalf("migrationStems 应成功: %v", err)
	}
	if stems[0] != "0001_init" {
		t.Errorf("首个迁移应为 0001_init，实际: %s", stems[0])
	}
}
