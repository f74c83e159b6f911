package main

import (
	"context"
	"flag"

	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/cmd/siteadmin/helper"
)

// @title						Site Admin API
// @version						1.0
// @description					Administrative console for the company website content.
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					访问 /login 并获取 TOKEN 后，填入 'Bearer ${TOKEN}' 以访问受保护的接口
func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Initialize configuration
	configInit := helper.NewConfigInitializer()
	backendConfig := configInit.GetBackendConfig()

	// Load debug environment if needed
	if err := configInit.LoadDebugEnvironment(); err != nil {
		klog.Fatalf("Failed to load env: %s", err)
	}

	// Initialize register config and dependencies
	registerConfig, err := configInit.InitializeRegisterConfig(context.Background())
	if err != nil {
		klog.Fatalf("Failed to register config: %s\n", err)
	}

	// Start HTTP server
	serverRunner := helper.NewServerRunner(backendConfig)
	serverRunner.StartServer(registerConfig)
}
