package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yeisme/docvault/pkg/rule"
)

// loadRequest 把模板文件与命令行旗标合并进请求结构.
//
// 优先级：显式旗标 > 模板值 > 旗标默认值.viper 的 BindPFlags 正好给出
// 这个次序，模板只在旗标未显式设置时生效.旗标名必须与请求结构的
// mapstructure 键一致.调用方补完派生字段后用 validate 校验.
func loadRequest(cmd *cobra.Command, templatePath string, out any) error {
	v := viper.New()

	if templatePath != "" {
		v.SetConfigFile(templatePath)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read template %s: %w", templatePath, err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	return nil
}

// validate 在进入 service 层前校验请求结构.
func validate(req any) error {
	if err := rule.ValidateStruct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	return nil
}
