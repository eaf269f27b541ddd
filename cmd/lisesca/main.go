package main

import (
	_ "embed"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/andybrandt/lisesca/internal/config"
)

//使用go:embed嵌入appconfig.json文件
//Github上保存的appconfig_example.json文件为样例,以实际文件为准

//go:embed appconfig/appconfig.json
var appConfig []byte

var appcfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lisesca",
	Short: "可恢复的列表页采集管线",
	Long: "lisesca 在浏览器中遍历分页列表(人脉或职位),用AI按用户标准筛选条目,\n" +
		"检查点落在本地sqlite库中,任何时刻中断都可以resume继续。",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env文件缺失不是错误,敏感项也可以直接来自环境
		if err := godotenv.Load(); err != nil {
			log.Printf("未加载.env文件: %v", err)
		}
		cfg, err := config.ParseConfig(appConfig)
		if err != nil {
			return err
		}
		appcfg = cfg
		return nil
	},
}

func main() {
	rootCmd.AddCommand(startCmd, resumeCmd, stopCmd, statusCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
