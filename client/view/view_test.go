package view

import (
	"reflect"
	"testing"
)

// 测试用元素：近似排期/名单类数据
type item struct {
	Name   string
	Email  string
	Status string
	Dept   string
	Date   string
	Slot   string
}

func testDescriptor() Descriptor[item] {
	return Descriptor[item]{
		SearchFields: func(it item) []string { return []string{it.Name, it.Email} },
		Category: func(it item, key string) string {
			switch key {
			case "status":
				return it.Status
			case "dept":
				return it.Dept
			}
			return ""
		},
	}
}

func sample() []item {
	return []item{
		{Name: "张三", Email: "zhangsan@uni.edu", Status: "active", Dept: "cs"},
		{Name: "李四", Email: "lisi@uni.edu", Status: "pending", Dept: "cs"},
		{Name: "Wang Wu", Email: "wangwu@uni.edu", Status: "active", Dept: "ee"},
	}
}

// ── 纯函数性质 ──

func TestApply_Idempotent(t *testing.T) {
	items := sample()
	f := Filters{Search: "uni.edu", Categories: map[string]string{"status": "active"}}
	d := testDescriptor()

	first := Apply(items, f, d)
	second := Apply(items, f, d)

	if !reflect.DeepEqual(first, second) {
		t.Error("相同输入两次过滤结果应一致")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := sample()
	original := make([]item, len(items))
	copy(original, items)

	Apply(items, Filters{Search: "zhang"}, testDescriptor())

	if !reflect.DeepEqual(items, original) {
		t.Error("Apply 不应修改输入切片")
	}
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Filters{Search: "x"}, testDescriptor())
	if got == nil || len(got) != 0 {
		t.Errorf("空集合应返回空序列而非 nil/出错，实际: %v", got)
	}
}

// ── 搜索语义 ──

func TestApply_SearchCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(sample(), Filters{Search: "WANG"}, testDescriptor())
	if len(got) != 1 || got[0].Name != "Wang Wu" {
		t.Errorf("搜索应大小写无关做子串匹配，实际: %v", got)
	}
}

func TestApply_SearchMatchesAnyField(t *testing.T) {
	// 命中邮箱而非姓名
	got := Apply(sample(), Filters{Search: "lisi@"}, testDescriptor())
	if len(got) != 1 || got[0].Name != "李四" {
		t.Errorf("任一可搜索字段命中即应通过，实际: %v", got)
	}
}

func TestApply_SearchWhitespaceIgnored(t *testing.T) {
	got := Apply(sample(), Filters{Search: "   "}, testDescriptor())
	if len(got) != 3 {
		t.Errorf("纯空白搜索词不应过滤任何元素，实际 %d 条", len(got))
	}
}

// ── 收窄单调性 ──

func TestApply_AddingConditionNeverGrowsResult(t *testing.T) {
	items := sample()
	d := testDescriptor()

	base := Apply(items, Filters{Categories: map[string]string{"status": "active"}}, d)
	narrowed := Apply(items, Filters{
		Search:     "wang",
		Categories: map[string]string{"status": "active"},
	}, d)

	if len(narrowed) > len(base) {
		t.Errorf("追加条件后结果不应变多: %d -> %d", len(base), len(narrowed))
	}
	// 收窄结果必是原结果的子集
	for _, n := range narrowed {
		found := false
		for _, b := range base {
			if b == n {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("收窄结果 %v 不在未收窄结果中", n)
		}
	}
}

// ── 分类过滤与哨兵 ──

func TestApply_CategoriesAreAnded(t *testing.T) {
	got := Apply(sample(), Filters{
		Categories: map[string]string{"status": "active", "dept": "cs"},
	}, testDescriptor())

	if len(got) != 1 || got[0].Name != "张三" {
		t.Errorf("分类条件应取交集，实际: %v", got)
	}
}

func TestApply_AllSentinelMeansNoConstraint(t *testing.T) {
	items := sample()
	d := testDescriptor()

	unconstrained := Apply(items, Filters{}, d)
	withAll := Apply(items, Filters{
		Categories: map[string]string{"status": All, "dept": All},
	}, d)

	if !reflect.DeepEqual(unconstrained, withAll) {
		t.Error("值为 all 的分类条件应等价于无该条件")
	}
	// 即使某元素的分类值恰为字面 "all" 也不做字面匹配
	weird := []item{{Name: "x", Status: "all"}, {Name: "y", Status: "active"}}
	got := Apply(weird, Filters{Categories: map[string]string{"status": All}}, d)
	if len(got) != 2 {
		t.Errorf("all 是哨兵而非字面值，期望 2 条，实际 %d", len(got))
	}
}

// ── 排序 ──

func TestApply_SortStable(t *testing.T) {
	items := []item{
		{Name: "c", Date: "2026-05-10", Slot: "10:00-10:30"},
		{Name: "a", Date: "2026-05-09", Slot: "14:00-14:30"},
		{Name: "b", Date: "2026-05-10", Slot: "09:00-09:30"},
		{Name: "d", Date: "2026-05-10", Slot: "09:00-09:30"},
	}
	d := Descriptor[item]{
		Less: ByDateTimeSlot(
			func(it item) string { return it.Date },
			func(it item) string { return it.Slot },
		),
	}

	got := Apply(items, Filters{}, d)

	want := []string{"a", "b", "d", "c"}
	for i, w := range want {
		if got[i].Name != w {
			t.Fatalf("位置 %d 期望 %s，实际 %s（日期升序、同日按时段、同键保持输入序）", i, w, got[i].Name)
		}
	}
}

func TestApply_NilLessKeepsInputOrder(t *testing.T) {
	items := []item{{Name: "b"}, {Name: "a"}, {Name: "c"}}
	got := Apply(items, Filters{}, Descriptor[item]{})
	for i, it := range items {
		if got[i].Name != it.Name {
			t.Fatal("Less 为 nil 时应保持输入顺序")
		}
	}
}
