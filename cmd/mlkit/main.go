package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "mlkit",
		Short: "mlkit 表格数据自动化训练工具",
		Long: `mlkit 对单个 CSV 数据集执行端到端的分类模型训练：
加载 → 清洗 → 特征构建 → 多模型族交叉验证选型 → 归因报告与模型序列化。`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newTrainCmd())
	root.AddCommand(newPredictCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
