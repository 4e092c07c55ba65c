package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/vibekit/core"
)

// itemConfig 是 YAML 目录文件中的单个商品。
type itemConfig struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Price       float64           `yaml:"price"`
	Description string            `yaml:"description"`
	Attributes  map[string]string `yaml:"attributes"`
}

type catalogConfig struct {
	Items []itemConfig `yaml:"items"`
}

// LoadFromYAML 从 YAML 文件加载目录。
// 格式：
//
//	items:
//	  - id: "D001"
//	    name: "Linen Midi Dress"
//	    price: 85
//	    description: "..."
//	    attributes:
//	      category: dress
//	      occasion: Work
func LoadFromYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg catalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	items := make([]*core.Item, 0, len(cfg.Items))
	for _, ic := range cfg.Items {
		it := core.NewItem(ic.ID)
		it.Name = ic.Name
		it.Price = ic.Price
		it.Description = ic.Description
		for k, v := range ic.Attributes {
			if core.IsKnownAttribute(k) {
				it.Attrs[k] = v
			}
		}
		items = append(items, it)
	}
	return New(items), nil
}

// LoadFromCSV 从 CSV 文件加载目录。
// 首行为表头，必需列 id/name/price，可选列 description 以及词表内的属性列；
// 表外列忽略。价格解析失败的行跳过。
func LoadFromCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) < 1 {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: empty csv")
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"id", "name", "price"} {
		if _, ok := col[required]; !ok {
			return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput,
				fmt.Sprintf("catalog: missing column %q", required))
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := make([]*core.Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		price, err := strconv.ParseFloat(field(row, "price"), 64)
		if err != nil {
			continue
		}
		it := core.NewItem(field(row, "id"))
		it.Name = field(row, "name")
		it.Price = price
		it.Description = field(row, "description")
		for _, attr := range core.AttributeOrder {
			if v := field(row, attr); v != "" {
				it.Attrs[attr] = v
			}
		}
		items = append(items, it)
	}
	return New(items), nil
}
